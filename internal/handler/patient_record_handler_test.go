package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vetcare/internal/domain"
	"vetcare/internal/handler"
	"vetcare/internal/middleware"
	"vetcare/internal/service"
	"vetcare/mocks"
)

// newMultipartContext builds a request with one file part.
func newMultipartContext(t *testing.T, target, field, filename string, content []byte, p *domain.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, target, &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	if p != nil {
		c.Set(middleware.ContextKeyPrincipal, *p)
	}
	return c, w
}

func TestPatientRecordHandler_AddNote(t *testing.T) {
	svc := new(mocks.MockPatientRecordService)
	h := handler.NewPatientRecordHandler(svc)
	svc.On("AddNote", mock.Anything, vet, "p1", service.AddNoteInput{Content: "Vaccinated"}).
		Return(&domain.PatientNote{ID: "n1", PatientID: "p1", Content: "Vaccinated"}, nil)

	c, w := newContext(http.MethodPost, "/api/patients/p1/notes", map[string]string{"content": "Vaccinated"}, &vet)
	withParams(c, "id", "p1")
	h.AddNote(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestPatientRecordHandler_AddNote_MissingContent(t *testing.T) {
	svc := new(mocks.MockPatientRecordService)
	h := handler.NewPatientRecordHandler(svc)

	c, w := newContext(http.MethodPost, "/api/patients/p1/notes", map[string]string{}, &vet)
	withParams(c, "id", "p1")
	h.AddNote(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientRecordHandler_UploadAttachment(t *testing.T) {
	svc := new(mocks.MockPatientRecordService)
	h := handler.NewPatientRecordHandler(svc)
	svc.On("UploadAttachment", mock.Anything, vet, "p1", mock.MatchedBy(func(in service.AttachmentUploadInput) bool {
		return in.Header != nil && in.Header.Filename == "xray.png"
	})).Return(&domain.PatientAttachment{ID: "a1", PatientID: "p1", FileName: "xray.png"}, nil)

	c, w := newMultipartContext(t, "/api/patients/p1/attachments", "file", "xray.png", []byte("\x89PNG\r\n\x1a\n"), &vet)
	withParams(c, "id", "p1")
	h.UploadAttachment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestPatientRecordHandler_UploadAttachment_MissingFile(t *testing.T) {
	svc := new(mocks.MockPatientRecordService)
	h := handler.NewPatientRecordHandler(svc)

	c, w := newMultipartContext(t, "/api/patients/p1/attachments", "", "", nil, &vet)
	withParams(c, "id", "p1")
	h.UploadAttachment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
}

func TestPatientRecordHandler_UploadAttachment_Unsupported(t *testing.T) {
	svc := new(mocks.MockPatientRecordService)
	h := handler.NewPatientRecordHandler(svc)
	svc.On("UploadAttachment", mock.Anything, vet, "p1", mock.Anything).Return(nil, domain.ErrUnsupportedFileType)

	c, w := newMultipartContext(t, "/api/patients/p1/attachments", "file", "notes.exe", []byte("MZ"), &vet)
	withParams(c, "id", "p1")
	h.UploadAttachment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", decode(t, w).Error.Code)
}

func TestPatientRecordHandler_AttachmentURL(t *testing.T) {
	svc := new(mocks.MockPatientRecordService)
	h := handler.NewPatientRecordHandler(svc)
	svc.On("AttachmentURL", mock.Anything, vet, "p1", "a1").Return("https://s3.test/a1?sig=1", nil)

	c, w := newContext(http.MethodGet, "/api/patients/p1/attachments/a1/url", nil, &vet)
	withParams(c, "id", "p1", "attachmentId", "a1")
	h.AttachmentURL(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := decode(t, w).Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://s3.test/a1?sig=1", data["url"])
}
