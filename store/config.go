package store

// MaxPageSize is the largest page DynamoDB will return for a single Scan request.
const MaxPageSize = 1000

// Config holds configuration for the Store.
type Config struct {
	// MaxPageSize caps the per-request Limit sent with a bounded scan.
	// Default: 1000
	MaxPageSize int32
}

// DefaultConfig returns the defaults used by the Lambda handlers.
func DefaultConfig() Config {
	return Config{
		MaxPageSize: MaxPageSize,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.MaxPageSize < 1 || c.MaxPageSize > MaxPageSize {
		c.MaxPageSize = MaxPageSize
	}
}
