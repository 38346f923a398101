package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService    service.RequestService
	transitionService service.TransitionService
}

func NewRequestHandler(requestService service.RequestService, transitionService service.TransitionService) *RequestHandler {
	return &RequestHandler{
		requestService:    requestService,
		transitionService: transitionService,
	}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.GET("", middleware.RequirePermission("requests.read"), h.ListRequests)
		requests.POST("", middleware.RequirePermission("requests.write"), h.CreateRequest)
		requests.GET("/:id", middleware.RequirePermission("requests.read"), h.GetRequest)
		requests.PATCH("/:id", middleware.RequirePermission("requests.write"), h.UpdateRequest)
		requests.PUT("/:id/status", middleware.RequirePermission("requests.transition"), h.UpdateStatus)
		requests.PUT("/:id/discard", middleware.RequirePermission("requests.transition"), h.DiscardRequest)
	}

	departments := router.Group("/api/departments")
	{
		departments.GET("/:dept/requests", middleware.RequirePermission("queues.read"), h.GetDepartmentQueue)
	}
}

// statusCode maps workflow errors onto HTTP codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrMissingField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateRequest handles POST /api/requests
// @Summary      Create a departmental request
// @Description  Creates a new interdepartmental work item, status defaults to PENDING
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Create Request Payload"
// @Success      201      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var dto service.CreateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	req, err := h.requestService.Create(c.Request.Context(), dto, userIDStr)
	if err != nil {
		code := statusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, req))
}

// ListRequests returns a paginated view over the whole collection
func (h *RequestHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)

	requests, total, err := h.requestService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   requests,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetRequest handles GET /api/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	req, err := h.requestService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		code := statusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// UpdateRequest handles PATCH /api/requests/:id, a partial patch where
// metadata is merged key-by-key
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	var patch service.UpdateRequestDTO
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	req, err := h.requestService.Update(c.Request.Context(), c.Param("id"), patch, userIDStr)
	if err != nil {
		code := statusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// UpdateStatus handles PUT /api/requests/:id/status
// @Summary      Move a request through the workflow
// @Description  Applies a status change, merging optional reviewer feedback. Completing a purchase spawns the payment authorization for finance.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                   true  "Request ID"
// @Param        payload  body      service.UpdateStatusDTO  true  "Target status and optional feedback"
// @Success      200      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/status [put]
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var dto service.UpdateStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	req, err := h.transitionService.UpdateStatus(c.Request.Context(), c.Param("id"), dto.Status, dto.Feedback, userIDStr)
	if err != nil {
		code := statusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// DiscardRequest handles PUT /api/requests/:id/discard, the terminal reject
func (h *RequestHandler) DiscardRequest(c *gin.Context) {
	var dto service.DiscardRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		// Allow empty body, reason is optional
		dto.Reason = ""
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	req, err := h.transitionService.Discard(c.Request.Context(), c.Param("id"), dto.Reason, userIDStr)
	if err != nil {
		code := statusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// GetDepartmentQueue handles GET /api/departments/:dept/requests.
// With ?active=true closed requests (DONE, REJECTED) are excluded; this is
// the feed behind every department dashboard.
func (h *RequestHandler) GetDepartmentQueue(c *gin.Context) {
	dept := c.Param("dept")
	active := c.DefaultQuery("active", "false") == "true"

	var (
		requests interface{}
		err      error
	)
	if active {
		requests, err = h.requestService.GetActiveByDepartment(c.Request.Context(), dept)
	} else {
		requests, err = h.requestService.GetByDepartment(c.Request.Context(), dept)
	}
	if err != nil {
		code := statusCode(err)
		c.JSON(code, response.Error(code, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}
