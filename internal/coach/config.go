package coach

import "time"

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the defaults used by the quiz page.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   384,
		Temperature: 0.4,
		Timeout:     20 * time.Second,
	}
}
