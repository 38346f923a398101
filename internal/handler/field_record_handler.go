package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FieldRecordHandler struct {
	recordService service.FieldRecordService
}

func NewFieldRecordHandler(recordService service.FieldRecordService) *FieldRecordHandler {
	return &FieldRecordHandler{recordService: recordService}
}

func (h *FieldRecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/api/field-records")
	{
		records.GET("", middleware.RequirePermission("records.read"), h.ListFieldRecords)
		records.GET("/:id", middleware.RequirePermission("records.read"), h.GetFieldRecord)
		records.POST("", middleware.RequirePermission("records.write"), h.CreateFieldRecord)
	}
}

// ListFieldRecords returns a paginated list of field captures
func (h *FieldRecordHandler) ListFieldRecords(c *gin.Context) {
	params := pagination.Parse(c)

	records, total, err := h.recordService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   records,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetFieldRecord handles GET /api/field-records/:id
func (h *FieldRecordHandler) GetFieldRecord(c *gin.Context) {
	record, err := h.recordService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// CreateFieldRecord handles POST /api/field-records
func (h *FieldRecordHandler) CreateFieldRecord(c *gin.Context) {
	var dto service.CreateFieldRecordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)

	record, err := h.recordService.Create(c.Request.Context(), dto, userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}
