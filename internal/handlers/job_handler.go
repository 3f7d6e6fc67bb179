package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/models"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
	authMW     gin.HandlerFunc
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, authMW gin.HandlerFunc) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
		authMW:      authMW,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	{
		// Public browsing
		jobs.GET("", h.ListJobs)
		jobs.GET("/:jobId", h.GetJob)
	}

	employer := r.Group("/jobs")
	employer.Use(h.authMW, middleware.RoleMiddleware(models.UserRoleEmployer))
	{
		employer.POST("", h.CreateJob)
		employer.PUT("/:jobId/close", h.CloseJob)
		// The paywalled read
		employer.GET("/:jobId/applicants", h.GetJobApplicants)
	}

	my := r.Group("/my/jobs")
	my.Use(h.authMW, middleware.RoleMiddleware(models.UserRoleEmployer))
	{
		my.GET("", h.ListMyJobs)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	limit, offset := ParsePagination(c)

	jobs, err := h.jobService.ListJobs(c.Request.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) CloseJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.jobService.CloseJob(c.Request.Context(), userID, c.Param("jobId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListMyJobs(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) GetJobApplicants(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.jobService.GetJobApplicants(c.Request.Context(), userID, c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
