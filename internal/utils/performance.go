package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Slow thresholds above which a measurement is logged at warn level
const (
	SlowOperation = 10 * time.Second
	SlowQuery     = 2 * time.Second
)

// OperationTimer provides a defer-friendly way to measure an operation
//
// Usage:
//
//	defer utils.OperationTimer("market_scan", log)()
func OperationTimer(operation string, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if duration > SlowOperation {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
		}
		return duration
	}
}

// MeasureQuery measures a database statement and its affected row count
func MeasureQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) {
	start := time.Now()

	return func(rowsAffected int64) {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")

		if duration > SlowQuery {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Int64("rows_affected", rowsAffected).
				Msg("Slow database query detected")
		}
	}
}
