package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"loandocs/internal/domain"
	"loandocs/internal/handler"
	"loandocs/mocks"
)

func newExtractionRouter(extSvc *mocks.MockExtractionService) *gin.Engine {
	r := gin.New()
	h := handler.NewExtractionHandler(extSvc)
	r.POST("/api/v1/extraction/:id/process", h.Process)
	r.POST("/api/v1/extraction/:id/reprocess", h.Reprocess)
	r.GET("/api/v1/extraction/export", h.Export)
	r.GET("/api/v1/extraction/:id", h.GetByDocument)
	r.PUT("/api/v1/extraction/:id", h.UpdateFields)
	return r
}

func companyPtr() *string { s := "Acme Ltd"; return &s }

func TestExtractionHandler_Process_OK(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	extSvc.On("Process", mock.Anything, int64(1)).
		Return(&domain.ExtractionRecord{ID: 10, DocumentID: 1, CompanyName: companyPtr()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extraction/1/process", nil)
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestExtractionHandler_Process_PipelineFailure(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	extSvc.On("Process", mock.Anything, int64(2)).
		Return(nil, &domain.ProcessingError{Err: errors.New("ocr blew up")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extraction/2/process", nil)
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EXTRACTION_FAILED", resp.Error.Code)
}

func TestExtractionHandler_Process_DocumentNotFound(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	extSvc.On("Process", mock.Anything, int64(3)).Return(nil, domain.ErrDocumentNotFound)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extraction/3/process", nil)
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExtractionHandler_Reprocess_OK(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	extSvc.On("Reprocess", mock.Anything, int64(4)).
		Return(&domain.ExtractionRecord{ID: 11, DocumentID: 4}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extraction/4/reprocess", nil)
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	extSvc.AssertCalled(t, "Reprocess", mock.Anything, int64(4))
}

func TestExtractionHandler_GetByDocument_NoExtraction(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	extSvc.On("GetByDocumentID", mock.Anything, int64(5)).Return(nil, domain.ErrExtractionNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/extraction/5", nil)
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EXTRACTION_NOT_FOUND", resp.Error.Code)
}

func TestExtractionHandler_UpdateFields_OK(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	extSvc.On("UpdateFields", mock.Anything, int64(6), mock.MatchedBy(func(f *domain.ExtractionFields) bool {
		return f.CompanyName != nil && *f.CompanyName == "Fixed Name"
	})).Return(&domain.ExtractionRecord{ID: 12, DocumentID: 6, ExtractionMethod: domain.ExtractionMethodManual}, nil)

	payload, _ := json.Marshal(map[string]interface{}{"company_name": "Fixed Name"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/extraction/6", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractionHandler_UpdateFields_BadBody(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/extraction/6", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	extSvc.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractionHandler_Export_WorkbookDownload(t *testing.T) {
	extSvc := new(mocks.MockExtractionService)
	rows := []domain.CompletedExtraction{
		{
			ExtractionRecord: domain.ExtractionRecord{ID: 1, DocumentID: 1, CompanyName: companyPtr()},
			Filename:         "statement.pdf",
		},
	}
	extSvc.On("ListCompleted", mock.Anything).Return(rows, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/extraction/export", nil)
	w := httptest.NewRecorder()

	newExtractionRouter(extSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	// The body is a real workbook.
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	cell, err := f.GetCellValue("Extractions", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", cell)
}
