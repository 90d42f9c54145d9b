// Package env reads function configuration from environment variables.
package env

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	cenv "github.com/caarlos0/env/v11"
)

var (
	// ErrMissing is returned when required variables are unset or empty.
	ErrMissing = errors.New("imagepipe: missing environment variables")

	// ErrInvalid is returned when a variable does not parse or is out of range.
	ErrInvalid = errors.New("imagepipe: invalid environment variable")
)

// Config holds the settings shared by every function.
type Config struct {
	EndpointParameter string        `env:"THIRDPARTY_ENDPOINT_PARAM" envDefault:"thirdparty_endpoint"`
	MaxLabels         int32         `env:"MAX_LABELS" envDefault:"10"`
	MinConfidence     float32       `env:"MIN_CONFIDENCE" envDefault:"70"`
	NotifySubject     string        `env:"NOTIFY_SUBJECT"`
	SendTimeout       time.Duration `env:"SEND_TIMEOUT_MS" envDefault:"10000"`
	FetchTimeout      time.Duration `env:"FETCH_TIMEOUT_MS" envDefault:"30000"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Upload is the environment of the upload function.
type Upload struct {
	Config
	BucketName string `env:"BUCKET_NAME,required,notEmpty"`
}

// Listing is the environment of the list function.
type Listing struct {
	Config
	TableName string `env:"TABLE_NAME,required,notEmpty"`
}

// Recognition is the environment of the recognition function.
type Recognition struct {
	Config
	TableName string `env:"TABLE_NAME,required,notEmpty"`
	QueueURL  string `env:"SQS_QUEUE_URL,required,notEmpty"`
	TopicARN  string `env:"TOPIC_ARN,required,notEmpty"`
}

// Load binds the process environment into a T.
func Load[T any]() (T, error) {
	return parse[T](cenv.Options{})
}

// LoadFrom binds environ into a T. A nil map is treated as empty.
func LoadFrom[T any](environ map[string]string) (T, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return parse[T](cenv.Options{Environment: environ})
}

func parse[T any](opts cenv.Options) (T, error) {
	var cfg, zero T
	// Durations are given in whole milliseconds.
	opts.FuncMap = map[reflect.Type]cenv.ParserFunc{
		reflect.TypeOf(time.Duration(0)): parseMillis,
	}
	if err := cenv.ParseWithOptions(&cfg, opts); err != nil {
		return zero, classify(err)
	}
	if v, ok := any(&cfg).(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return zero, err
		}
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxLabels < 1 {
		return fmt.Errorf("%w: MAX_LABELS=%d", ErrInvalid, c.MaxLabels)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("%w: MIN_CONFIDENCE=%v", ErrInvalid, c.MinConfidence)
	}
	return nil
}

func parseMillis(v string) (interface{}, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("must be positive, got %d", n)
	}
	return time.Duration(n) * time.Millisecond, nil
}

// classify maps binding errors onto ErrMissing and ErrInvalid.
func classify(err error) error {
	var agg cenv.AggregateError
	if !errors.As(err, &agg) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	var missing []string
	for _, e := range agg.Errors {
		switch e := e.(type) {
		case cenv.EnvVarIsNotSetError:
			missing = append(missing, e.Key)
		case cenv.EmptyEnvVarError:
			missing = append(missing, e.Key)
		default:
			return fmt.Errorf("%w: %w", ErrInvalid, e)
		}
	}
	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
}
