package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
)

type fakeSSM struct {
	value  string
	err    error
	inputs []*ssm.GetParameterInput
}

func (f *fakeSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(f.value)}}, nil
}

func TestSend_PostsXML(t *testing.T) {
	var gotBody, gotType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ssmClient := &fakeSSM{value: srv.URL}
	s := New(ssmClient)

	status, err := s.Send(context.Background(), []byte("<data/>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusAccepted {
		t.Errorf("expected 202, got %d", status)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotType != "application/xml" {
		t.Errorf("expected application/xml, got %q", gotType)
	}
	if gotBody != "<data/>" {
		t.Errorf("expected body '<data/>', got %q", gotBody)
	}

	in := ssmClient.inputs[0]
	if aws.ToString(in.Name) != "thirdparty_endpoint" {
		t.Errorf("expected default parameter, got %q", aws.ToString(in.Name))
	}
	if in.WithDecryption == nil || *in.WithDecryption {
		t.Error("expected WithDecryption=false")
	}
}

func TestSend_ResolvesEveryCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ssmClient := &fakeSSM{value: srv.URL}
	s := New(ssmClient, WithParameter("custom_endpoint"))

	for i := 0; i < 3; i++ {
		if _, err := s.Send(context.Background(), []byte("<data/>")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(ssmClient.inputs) != 3 {
		t.Errorf("expected 3 lookups, got %d", len(ssmClient.inputs))
	}
	if aws.ToString(ssmClient.inputs[0].Name) != "custom_endpoint" {
		t.Errorf("expected custom parameter, got %q", aws.ToString(ssmClient.inputs[0].Name))
	}
}

func TestSend_LogsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	s := New(&fakeSSM{value: srv.URL}, WithLogger(logger))

	if _, err := s.Send(context.Background(), []byte("<data/>")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry struct {
		Msg      string `json:"msg"`
		Endpoint string `json:"endpoint"`
		Status   int    `json:"status"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry.Msg != "POST request returned status" {
		t.Errorf("expected constant message, got %q", entry.Msg)
	}
	if entry.Endpoint != srv.URL || entry.Status != http.StatusCreated {
		t.Errorf("expected %s/201, got %s/%d", srv.URL, entry.Endpoint, entry.Status)
	}
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(&fakeSSM{value: srv.URL})
	status, err := s.Send(context.Background(), []byte("<data/>"))

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || status != http.StatusBadGateway {
		t.Errorf("expected 502, got %d / %d", statusErr.StatusCode, status)
	}
}

func TestSend_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := New(&fakeSSM{value: url})
	if _, err := s.Send(context.Background(), []byte("<data/>")); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	s := New(&fakeSSM{value: srv.URL}, WithTimeout(20*time.Millisecond))
	if _, err := s.Send(context.Background(), []byte("<data/>")); err == nil {
		t.Error("expected timeout error")
	}
}

func TestSend_ParameterNotFound(t *testing.T) {
	s := New(&fakeSSM{err: &types.ParameterNotFound{Message: aws.String("missing")}})

	_, err := s.Send(context.Background(), []byte("<data/>"))
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Errorf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestSend_EmptyParameter(t *testing.T) {
	s := New(&fakeSSM{value: ""})

	_, err := s.Send(context.Background(), []byte("<data/>"))
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Errorf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestSend_ResolveError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"api error", &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "denied"}},
		{"plain error", errors.New("no route")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeSSM{err: tt.err})
			_, err := s.Send(context.Background(), []byte("<data/>"))
			if !errors.Is(err, ErrResolve) {
				t.Errorf("expected ErrResolve, got %v", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected cause to be wrapped, got %v", err)
			}
		})
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Endpoint: "https://example.com/in", StatusCode: 500}
	if err.Error() != "POST https://example.com/in returned status 500" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
