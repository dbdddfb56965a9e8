package profile

import (
	"fmt"
	"time"
)

// ValidationError 검증 실패 (실행 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the fields that are set.
// Cross-field rules (e.g. redis backend) are left to config.Validate after Apply.
func Validate(p *Profile) error {
	switch p.Source.Strategy {
	case "", "plain", "headered", "rendered":
	default:
		return ValidationError{"source.strategy", "must be one of plain, headered, rendered"}
	}

	switch p.Quote.Provider {
	case "", "chart", "financego":
	default:
		return ValidationError{"quote.provider", "must be one of chart, financego"}
	}

	if p.Quote.RateLimit < 0 {
		return ValidationError{"quote.rate_limit", "must be >= 0"}
	}

	if p.Screener.Concurrency < 0 {
		return ValidationError{"screener.concurrency", "must be >= 1 when set"}
	}

	if p.Cache.TTL != "" {
		ttl, err := time.ParseDuration(p.Cache.TTL)
		if err != nil {
			return ValidationError{"cache.ttl", err.Error()}
		}
		if ttl <= 0 {
			return ValidationError{"cache.ttl", "must be > 0"}
		}
	}

	switch p.Output.Format {
	case "", "table", "csv", "json":
	default:
		return ValidationError{"output.format", "must be one of table, csv, json"}
	}

	return nil
}
