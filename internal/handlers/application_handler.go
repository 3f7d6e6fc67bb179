package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
	authMW             gin.HandlerFunc
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService, authMW gin.HandlerFunc) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
		authMW:             authMW,
	}
}

func (h *ApplicationHandler) RegisterRoutes(r *gin.RouterGroup) {
	talent := r.Group("")
	talent.Use(h.authMW, middleware.RoleMiddleware(models.UserRoleTalent))
	{
		talent.POST("/jobs/:jobId/apply", h.Apply)
		talent.GET("/my/applications", h.ListMyApplications)
	}

	employer := r.Group("/applications")
	employer.Use(h.authMW, middleware.RoleMiddleware(models.UserRoleEmployer))
	{
		employer.PUT("/:applicationId/status", h.UpdateStatus)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	app, err := h.applicationService.Apply(c.Request.Context(), userID, c.Param("jobId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListMyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	apps, err := h.applicationService.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.applicationService.UpdateStatus(c.Request.Context(), userID, c.Param("applicationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
