package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loandocs/internal/domain"
	"loandocs/internal/service"
	"loandocs/internal/xlsxexport"
)

// ExtractionHandler handles extraction pipeline endpoints.
type ExtractionHandler struct {
	extService service.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extService: extService}
}

// Process handles POST /api/v1/extraction/:id/process
func (h *ExtractionHandler) Process(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	rec, err := h.extService.Process(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Reprocess handles POST /api/v1/extraction/:id/reprocess
func (h *ExtractionHandler) Reprocess(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	rec, err := h.extService.Reprocess(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// GetByDocument handles GET /api/v1/extraction/:id
func (h *ExtractionHandler) GetByDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	rec, err := h.extService.GetByDocumentID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// UpdateFields handles PUT /api/v1/extraction/:id
func (h *ExtractionHandler) UpdateFields(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var fields domain.ExtractionFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	rec, err := h.extService.UpdateFields(c.Request.Context(), id, &fields)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Export handles GET /api/v1/extraction/export
func (h *ExtractionHandler) Export(c *gin.Context) {
	rows, err := h.extService.ListCompleted(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("extractions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := xlsxexport.Write(c.Writer, rows); err != nil {
		HandleError(c, err)
		return
	}
}
