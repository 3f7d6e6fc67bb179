package handlers

import (
	"jobboard_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	PaymentHandler     *PaymentHandler
}

// NewAppHandlers wires the handlers against the service container. authMW
// is the bearer-token middleware shared by every protected route group.
func NewAppHandlers(base *BaseHandler, svcs *services.ServiceContainer, authMW gin.HandlerFunc) *AppHandlers {
	return &AppHandlers{
		AuthHandler:        NewAuthHandler(base, svcs.AuthService, authMW),
		JobHandler:         NewJobHandler(base, svcs.JobService, authMW),
		ApplicationHandler: NewApplicationHandler(base, svcs.ApplicationService, authMW),
		PaymentHandler:     NewPaymentHandler(base, svcs.PaymentService, authMW),
	}
}
