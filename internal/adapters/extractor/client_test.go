package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/docup/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) domain.SelectedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return domain.SelectedFile{
		Name:     name,
		Path:     path,
		MIMEType: "text/plain",
		Size:     int64(len(content)),
	}
}

func TestClient_Extract(t *testing.T) {
	var (
		gotKey      string
		gotPath     string
		gotFilename string
		gotType     string
		gotBody     string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(APIKeyHeader)
		gotPath = r.URL.Path

		file, header, err := r.FormFile(FormField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotType = header.Header.Get("Content-Type")
		gotBody = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"filename":"notes.txt","filetype":"txt","extracted_text":"hello world","file_id":"abc123"}`)
	}))
	defer srv.Close()

	file := writeTempFile(t, "notes.txt", "hello world")
	client := NewClient(srv.URL+"/", "secret")

	var mu sync.Mutex
	var lastSent, lastTotal int64
	result, err := client.Extract(context.Background(), file, func(sent, total int64) {
		mu.Lock()
		lastSent, lastTotal = sent, total
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, DefaultEndpointPath, gotPath)
	assert.Equal(t, "notes.txt", gotFilename)
	assert.Equal(t, "text/plain", gotType)
	assert.Equal(t, "hello world", gotBody)

	assert.Equal(t, "abc123", result.FileID)
	assert.Equal(t, "hello world", result.ExtractedText)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, file.Size, lastSent)
	assert.Equal(t, file.Size, lastTotal)
}

func TestClient_ExtractCustomPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", WithEndpointPath("/extract"))
	_, err := client.Extract(context.Background(), writeTempFile(t, "a.txt", "a"), nil)
	require.NoError(t, err)
	assert.Equal(t, "/extract", gotPath)
}

func TestClient_ExtractFilenameEscaping(t *testing.T) {
	var gotDisposition, gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		part, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotDisposition = part.Header.Get("Content-Disposition")
		gotFilename = part.FileName()
		_, _ = io.Copy(io.Discard, part)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	name := "tab\there \"quoted\" back\\slash.txt"
	client := NewClient(srv.URL, "k")
	_, err := client.Extract(context.Background(), writeTempFile(t, name, "x"), nil)
	require.NoError(t, err)

	assert.Equal(t, name, gotFilename)
	assert.Contains(t, gotDisposition, "\t", "only quotes and backslashes are escaped")
	assert.NotContains(t, gotDisposition, `\t`)
}

func TestWithTimeout_KeepsSharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Second}
	client := NewClient("http://localhost", "k", WithHTTPClient(shared), WithTimeout(5*time.Second))

	assert.Equal(t, time.Second, shared.Timeout)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.NotSame(t, shared, client.httpClient)
}

func TestClient_ExtractRejected(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"invalid key", http.StatusUnauthorized, `{"detail":"Invalid API Key"}`, "Invalid API Key"},
		{"unsupported", http.StatusBadRequest, `{"detail":"Unsupported file type"}`, "Unsupported file type"},
		{"plain text error", http.StatusInternalServerError, "boom\n", "boom"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, `[{"msg":"field required"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "bad")
			result, err := client.Extract(context.Background(), writeTempFile(t, "x.txt", "data"), nil)
			require.Error(t, err)
			assert.Nil(t, result)

			var uploadErr *domain.UploadError
			require.True(t, errors.As(err, &uploadErr))
			assert.Equal(t, tt.status, uploadErr.StatusCode)
			assert.Equal(t, tt.wantDetail, uploadErr.Detail)
			assert.Equal(t, "x.txt", uploadErr.File)
		})
	}
}

func TestClient_ExtractUndecodableSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = io.WriteString(w, "OK")
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL, "k").Extract(context.Background(), writeTempFile(t, "a.txt", "a"), nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestClient_ExtractMissingFile(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "k")
	_, err := client.Extract(context.Background(), domain.SelectedFile{Name: "gone.pdf", Path: filepath.Join(t.TempDir(), "gone.pdf")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestClient_ExtractUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "k").Extract(context.Background(), writeTempFile(t, "a.txt", "a"), nil)
	require.Error(t, err)
	var uploadErr *domain.UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Zero(t, uploadErr.StatusCode)
}

func TestClient_ExtractCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, "k").Extract(ctx, writeTempFile(t, "a.txt", "a"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(APIKeyHeader) != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Invalid API Key"}`)
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/v1/json/") {
			http.NotFound(w, r)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/v1/json/")
		if id != "abc" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"File not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"file_id":"abc","extracted_text":"hi"}`)
	}))
	defer srv.Close()

	body, err := NewClient(srv.URL, "k").Fetch(context.Background(), "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"file_id":"abc","extracted_text":"hi"}`, string(body))

	_, err = NewClient(srv.URL, "k").Fetch(context.Background(), "missing")
	var uploadErr *domain.UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusNotFound, uploadErr.StatusCode)
	assert.Equal(t, "File not found", uploadErr.Detail)

	_, err = NewClient(srv.URL, "wrong").Fetch(context.Background(), "abc")
	require.Error(t, err)

	_, err = NewClient(srv.URL, "k").Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyFileID)
}
