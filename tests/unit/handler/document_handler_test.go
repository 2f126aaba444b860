package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"loandocs/internal/domain"
	"loandocs/internal/handler"
	"loandocs/internal/service"
	"loandocs/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDocumentRouter(docSvc service.DocumentService) *gin.Engine {
	r := gin.New()
	h := handler.NewDocumentHandler(docSvc)
	r.POST("/api/v1/documents/upload", h.Upload)
	r.GET("/api/v1/documents", h.List)
	r.GET("/api/v1/documents/:id", h.GetByID)
	r.PUT("/api/v1/documents/:id/report", h.UpdateReport)
	r.DELETE("/api/v1/documents/:id", h.Delete)
	return r
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestDocumentHandler_Upload_Created(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("Upload", mock.Anything, mock.AnythingOfType("*service.UploadDocumentInput")).
		Return(&domain.Document{ID: 1, Filename: "a.pdf", Status: domain.DocumentStatusUploaded}, nil)

	body, contentType := multipartBody(t, "file", "a.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestDocumentHandler_Upload_MissingFile(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Upload_UnsupportedType(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("Upload", mock.Anything, mock.AnythingOfType("*service.UploadDocumentInput")).
		Return(nil, &domain.ValidationError{Err: domain.ErrUnsupportedFileType})

	body, contentType := multipartBody(t, "file", "a.docx", "PK")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp.Error.Code)
}

func TestDocumentHandler_List_Paginated(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("List", mock.Anything, (*domain.DocumentStatus)(nil), 0, 20).
		Return([]domain.Document{{ID: 1}, {ID: 2}}, 2, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
}

func TestDocumentHandler_List_StatusFilter(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	failed := domain.DocumentStatusFailed
	docSvc.On("List", mock.Anything, &failed, 0, 20).
		Return([]domain.Document{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?status=failed", nil)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertCalled(t, "List", mock.Anything, &failed, 0, 20)
}

func TestDocumentHandler_List_BadStatus(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?status=bogus", nil)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentHandler_GetByID_NotFound(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrDocumentNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/99", nil)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_GetByID_BadID(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/abc", nil)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_UpdateReport_OK(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	notes := "needs a second look"
	docSvc.On("UpdateReport", mock.Anything, mock.MatchedBy(func(in *service.UpdateReportInput) bool {
		return in.DocumentID == 3 && in.ReviewerNotes != nil && *in.ReviewerNotes == notes
	})).Return(&domain.Document{ID: 3, ReviewerNotes: &notes}, nil)

	payload, _ := json.Marshal(map[string]string{"reviewer_notes": notes})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/3/report", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentHandler_Delete_OK(t *testing.T) {
	docSvc := new(mocks.MockDocumentService)
	docSvc.On("Delete", mock.Anything, int64(4)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/4", nil)
	w := httptest.NewRecorder()

	newDocumentRouter(docSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertCalled(t, "Delete", mock.Anything, int64(4))
}
