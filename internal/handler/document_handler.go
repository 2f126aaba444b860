package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loandocs/internal/domain"
	"loandocs/internal/service"
)

// DocumentHandler handles document upload and management endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Upload handles POST /api/v1/documents/upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.docService.Upload(c.Request.Context(), &service.UploadDocumentInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var status *domain.DocumentStatus
	if s := c.Query("status"); s != "" {
		st := domain.DocumentStatus(s)
		switch st {
		case domain.DocumentStatusUploaded, domain.DocumentStatusProcessing,
			domain.DocumentStatusCompleted, domain.DocumentStatusFailed:
			status = &st
		default:
			RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "unknown document status")
			return
		}
	}

	docs, total, err := h.docService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.docService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

type updateReportRequest struct {
	ReviewerNotes *string `json:"reviewer_notes"`
	ReportData    *string `json:"report_data"`
}

// UpdateReport handles PUT /api/v1/documents/:id/report
func (h *DocumentHandler) UpdateReport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	doc, err := h.docService.UpdateReport(c.Request.Context(), &service.UpdateReportInput{
		DocumentID:    id,
		ReviewerNotes: req.ReviewerNotes,
		ReportData:    req.ReportData,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.docService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"deleted": id})
}

// parseIDParam parses the :id path parameter. On failure it writes a 400
// response and returns false.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
