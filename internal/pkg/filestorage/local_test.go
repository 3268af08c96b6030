package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadedFileHeader builds a real multipart.FileHeader from an in-memory form
func uploadedFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/admissions/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, fileHeader, err := req.FormFile("file")
	require.NoError(t, err)
	return fileHeader
}

func TestSaveDocument(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "http://localhost:8080/uploads")
	require.NoError(t, err)

	url, err := storage.SaveDocument(uploadedFileHeader(t, "transcript.pdf", "pdf bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/admissions/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))
	// The stored filename is randomized, not the client-supplied one
	assert.NotContains(t, url, "transcript")

	stored, err := os.ReadFile(filepath.Join(base, "admissions", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(stored))
}

func TestSaveDocument_WithoutBaseURL(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	path, err := storage.SaveDocument(uploadedFileHeader(t, "photo.jpg", "jpg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, filepath.Join("uploads", "admissions")))
}

func TestDelete(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalStorage(base, "http://localhost:8080/uploads")
	require.NoError(t, err)

	url, err := storage.SaveDocument(uploadedFileHeader(t, "cert.pdf", "bytes"))
	require.NoError(t, err)

	physical := filepath.Join(base, "admissions", filepath.Base(url))
	_, err = os.Stat(physical)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(url))
	_, err = os.Stat(physical)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op
	assert.NoError(t, storage.Delete(url))
	assert.NoError(t, storage.Delete(""))
}
