package services

import (
	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/gateway"
	"jobboard_backend/internal/repositories"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	AuthService        AuthService
	JobService         JobService
	ApplicationService ApplicationService
	PaymentService     PaymentService
}

// NewServiceContainer wires the services against their repositories and
// the payment gateway.
func NewServiceContainer(
	users repositories.UserRepository,
	jobs repositories.JobRepository,
	applications repositories.ApplicationRepository,
	payments repositories.PaymentRepository,
	gw gateway.PaymentGateway,
	tokens *auth.TokenService,
	pricing config.PaymentsConfig,
) *ServiceContainer {
	return &ServiceContainer{
		AuthService:        NewAuthService(users, tokens),
		JobService:         NewJobService(jobs, applications, payments, users, pricing.FreeApplicantCap),
		ApplicationService: NewApplicationService(applications, jobs, users),
		PaymentService:     NewPaymentService(payments, users, jobs, gw, pricing),
	}
}
