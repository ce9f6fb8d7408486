package http_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/dropzone"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Upload(ctx context.Context, req dropzone.UploadRequest) (dropzone.Upload, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dropzone.Upload), args.Error(1)
}

func (m *MockService) List(ctx context.Context, query dropzone.ListQuery) (dropzone.ListResult, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(dropzone.ListResult), args.Error(1)
}

type formFile struct {
	field, name string
	data        []byte
}

// newMultipartRequest builds a POST with the given fields and files.
func newMultipartRequest(t *testing.T, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
