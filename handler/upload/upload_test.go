package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jacentio/imagepipe/blob"
	"github.com/jacentio/imagepipe/fetch"
)

type fakeFetcher struct {
	data  []byte
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	return f.data, f.err
}

type putCall struct {
	bucket, key string
	data        []byte
}

type fakeWriter struct {
	err   error
	calls []putCall
}

func (f *fakeWriter) Put(ctx context.Context, bucket, key string, data []byte) error {
	f.calls = append(f.calls, putCall{bucket, key, data})
	return f.err
}

func request(params map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, QueryStringParameters: params}
}

func decodeBody(t *testing.T, resp events.APIGatewayProxyResponse) string {
	t.Helper()
	var msg string
	if err := json.Unmarshal([]byte(resp.Body), &msg); err != nil {
		t.Fatalf("body is not a JSON string: %q", resp.Body)
	}
	return msg
}

func TestHandleRequest_Success(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("png-bytes")}
	writer := &fakeWriter{}
	h := NewHandler(fetcher, writer, "images", nil)

	resp, err := h.HandleRequest(context.Background(), request(map[string]string{
		"url":  "https://example.com/cat.png",
		"name": "cat.png",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp); msg != MsgUploaded {
		t.Errorf("expected %q, got %q", MsgUploaded, msg)
	}
	if len(writer.calls) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writer.calls))
	}
	call := writer.calls[0]
	if call.bucket != "images" || call.key != "cat.png" || string(call.data) != "png-bytes" {
		t.Errorf("unexpected write %+v", call)
	}
}

func TestHandleRequest_MissingQuery(t *testing.T) {
	fetcher := &fakeFetcher{}
	h := NewHandler(fetcher, &fakeWriter{}, "images", nil)

	resp, _ := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp); msg != MsgMissingQuery {
		t.Errorf("expected %q, got %q", MsgMissingQuery, msg)
	}
	if len(fetcher.calls) != 0 {
		t.Error("expected no fetch")
	}
}

func TestHandleRequest_MissingParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"empty", map[string]string{}},
		{"no name", map[string]string{"url": "https://example.com/a.png"}},
		{"no url", map[string]string{"name": "a.png"}},
		{"blank url", map[string]string{"url": "", "name": "a.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			writer := &fakeWriter{}
			h := NewHandler(fetcher, writer, "images", nil)

			resp, _ := h.HandleRequest(context.Background(), request(tt.params))
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
			if msg := decodeBody(t, resp); msg != MsgMissingParams {
				t.Errorf("expected %q, got %q", MsgMissingParams, msg)
			}
			if len(fetcher.calls)+len(writer.calls) != 0 {
				t.Error("expected no external calls")
			}
		})
	}
}

func TestHandleRequest_DownloadFailureSkipsWrite(t *testing.T) {
	fetcher := &fakeFetcher{err: fetch.ErrDownload}
	writer := &fakeWriter{}
	h := NewHandler(fetcher, writer, "images", nil)

	resp, _ := h.HandleRequest(context.Background(), request(map[string]string{
		"url":  "https://example.com/missing.png",
		"name": "missing.png",
	}))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp); msg != "Failed to download image from https://example.com/missing.png" {
		t.Errorf("unexpected message %q", msg)
	}
	if len(writer.calls) != 0 {
		t.Errorf("expected writer not to be called, got %d calls", len(writer.calls))
	}
}

func TestHandleRequest_UploadFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.New("AccessDenied")}
	h := NewHandler(&fakeFetcher{data: []byte("x")}, writer, "images", nil)

	resp, _ := h.HandleRequest(context.Background(), request(map[string]string{
		"url":  "https://example.com/a.png",
		"name": "a.png",
	}))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if msg := decodeBody(t, resp); msg != MsgUploadFailed {
		t.Errorf("expected %q, got %q", MsgUploadFailed, msg)
	}
}

// fakeS3 backs a real blob.Writer so the handler runs against the actual
// fetch and blob packages.
type fakeS3 struct {
	keys []string
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func TestHandleRequest_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cat.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n"))
	}))
	defer srv.Close()

	objects := &fakeS3{}
	h := NewHandler(fetch.New(), blob.NewWriter(objects, nil), "images", nil)

	resp, _ := h.HandleRequest(context.Background(), request(map[string]string{
		"url":  srv.URL + "/cat.png",
		"name": "cat.png",
	}))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp, _ = h.HandleRequest(context.Background(), request(map[string]string{
		"url":  srv.URL + "/dog.png",
		"name": "dog.png",
	}))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500 for missing object, got %d", resp.StatusCode)
	}

	if len(objects.keys) != 1 || objects.keys[0] != "cat.png" {
		t.Errorf("expected only cat.png stored, got %v", objects.keys)
	}
}
