package env

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	c, err := LoadFrom[Config](nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Config{
		EndpointParameter: "thirdparty_endpoint",
		MaxLabels:         10,
		MinConfidence:     70,
		SendTimeout:       10 * time.Second,
		FetchTimeout:      30 * time.Second,
		LogLevel:          "info",
	}
	if c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}

func TestLoadFrom_Values(t *testing.T) {
	c, err := LoadFrom[Recognition](map[string]string{
		"TABLE_NAME":       "Classifications",
		"SQS_QUEUE_URL":    "https://sqs/q",
		"TOPIC_ARN":        "arn:topic",
		"MAX_LABELS":       "5",
		"MIN_CONFIDENCE":   "82.5",
		"NOTIFY_SUBJECT":   "done",
		"SEND_TIMEOUT_MS":  "2500",
		"FETCH_TIMEOUT_MS": "100",
		"LOG_LEVEL":        "debug",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TableName != "Classifications" || c.QueueURL != "https://sqs/q" || c.TopicARN != "arn:topic" {
		t.Errorf("unexpected names %+v", c)
	}
	if c.MaxLabels != 5 || c.MinConfidence != 82.5 {
		t.Errorf("expected 5/82.5, got %d/%v", c.MaxLabels, c.MinConfidence)
	}
	if c.SendTimeout != 2500*time.Millisecond || c.FetchTimeout != 100*time.Millisecond {
		t.Errorf("unexpected timeouts %v/%v", c.SendTimeout, c.FetchTimeout)
	}
	if c.NotifySubject != "done" || c.LogLevel != "debug" {
		t.Errorf("unexpected subject/level %q/%q", c.NotifySubject, c.LogLevel)
	}
}

func TestLoadFrom_NumericAlongsideRequired(t *testing.T) {
	c, err := LoadFrom[Upload](map[string]string{
		"BUCKET_NAME":     "images",
		"MAX_LABELS":      "5",
		"SEND_TIMEOUT_MS": "2000",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BucketName != "images" || c.MaxLabels != 5 || c.SendTimeout != 2*time.Second {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestLoadFrom_ZeroConfidence(t *testing.T) {
	c, err := LoadFrom[Config](map[string]string{"MIN_CONFIDENCE": "0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.MinConfidence != 0 {
		t.Errorf("expected 0, got %v", c.MinConfidence)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]string{
		"MAX_LABELS":       "many",
		"MIN_CONFIDENCE":   "101",
		"SEND_TIMEOUT_MS":  "0",
		"FETCH_TIMEOUT_MS": "-5",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom[Config](map[string]string{name: value})
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	t.Run("MAX_LABELS zero", func(t *testing.T) {
		_, err := LoadFrom[Config](map[string]string{"MAX_LABELS": "0"})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})
}

func TestLoadFrom_Missing(t *testing.T) {
	_, err := LoadFrom[Recognition](map[string]string{
		"TABLE_NAME": "Classifications",
		"TOPIC_ARN":  "",
	})
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "SQS_QUEUE_URL") || !strings.Contains(err.Error(), "TOPIC_ARN") {
		t.Errorf("expected missing names in message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "TABLE_NAME") {
		t.Errorf("TABLE_NAME is set, got %q", err.Error())
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("TABLE_NAME", "FromProcess")

	c, err := Load[Listing]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TableName != "FromProcess" {
		t.Errorf("expected 'FromProcess', got %q", c.TableName)
	}
}
