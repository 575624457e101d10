// Package history stores daily closes and dividend yields per ticker.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/fiisentinel/internal/database"
	"github.com/aristath/fiisentinel/internal/utils"
	"github.com/rs/zerolog"
)

// DailyPrice is one stored close
type DailyPrice struct {
	Date   string  `json:"date" msgpack:"date"` // YYYY-MM-DD
	Close  float64 `json:"close" msgpack:"close"`
	Volume *int64  `json:"volume,omitempty" msgpack:"volume,omitempty"`
}

// HistoryDB provides access to the history database
type HistoryDB struct {
	db  *database.DB
	now func() time.Time
	log zerolog.Logger
}

// NewHistoryDB creates a new history repository
func NewHistoryDB(db *database.DB, log zerolog.Logger) *HistoryDB {
	return &HistoryDB{
		db:  db,
		now: time.Now,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// dayStart truncates a time to 00:00 UTC and returns it as unix seconds
func dayStart(t time.Time) int64 {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// AppendClose stores the close for a day, replacing any existing value
func (h *HistoryDB) AppendClose(ticker string, date time.Time, closePrice float64, volume int64) error {
	_, err := h.db.Exec(`
		INSERT INTO daily_prices (ticker, date, close, volume)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET close = excluded.close, volume = excluded.volume
	`, normalizeTicker(ticker), dayStart(date), closePrice, volume)
	if err != nil {
		return fmt.Errorf("failed to store close for %s: %w", ticker, err)
	}
	return nil
}

// AppendYield stores the dividend yield observed on a day
func (h *HistoryDB) AppendYield(ticker string, date time.Time, dividendYield float64) error {
	_, err := h.db.Exec(`
		INSERT INTO daily_yields (ticker, date, dividend_yield)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET dividend_yield = excluded.dividend_yield
	`, normalizeTicker(ticker), dayStart(date), dividendYield)
	if err != nil {
		return fmt.Errorf("failed to store yield for %s: %w", ticker, err)
	}
	return nil
}

// GetCloses returns up to limit most recent closes, oldest first.
// Unknown tickers return an empty slice.
func (h *HistoryDB) GetCloses(ticker string, limit int) ([]float64, error) {
	if limit <= 0 {
		return []float64{}, nil
	}

	rows, err := h.db.Query(`
		SELECT close FROM daily_prices
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT ?
	`, normalizeTicker(ticker), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query closes: %w", err)
	}
	defer rows.Close()

	closes := make([]float64, 0, limit)
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan close: %w", err)
		}
		closes = append(closes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closes: %w", err)
	}

	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	return closes, nil
}

// GetDailyPrices returns up to limit most recent prices, newest first
func (h *HistoryDB) GetDailyPrices(ticker string, limit int) ([]DailyPrice, error) {
	rows, err := h.db.Query(`
		SELECT date, close, volume FROM daily_prices
		WHERE ticker = ?
		ORDER BY date DESC
		LIMIT ?
	`, normalizeTicker(ticker), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	prices := make([]DailyPrice, 0)
	for rows.Next() {
		var p DailyPrice
		var dateUnix int64
		var volume sql.NullInt64
		if err := rows.Scan(&dateUnix, &p.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		p.Date = time.Unix(dateUnix, 0).UTC().Format("2006-01-02")
		if volume.Valid {
			v := volume.Int64
			p.Volume = &v
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return prices, nil
}

// AverageYield returns the mean recorded yield over the trailing months.
// ok is false when nothing was recorded in the window.
func (h *HistoryDB) AverageYield(ticker string, months int) (float64, bool) {
	cutoff := dayStart(h.now().AddDate(0, -months, 0))

	var avg sql.NullFloat64
	err := h.db.QueryRow(`
		SELECT AVG(dividend_yield) FROM daily_yields
		WHERE ticker = ? AND date >= ?
	`, normalizeTicker(ticker), cutoff).Scan(&avg)
	if err != nil {
		h.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to average yield history")
		return 0, false
	}
	if !avg.Valid {
		return 0, false
	}
	return avg.Float64, true
}

// Prune deletes rows older than the retention window and returns the number removed
func (h *HistoryDB) Prune(retention time.Duration) (int64, error) {
	cutoff := dayStart(h.now().Add(-retention))

	var removed int64
	done := utils.MeasureQuery("prune_history", h.log)
	err := database.WithTransaction(h.db.Conn(), func(tx *sql.Tx) error {
		for _, table := range []string{"daily_prices", "daily_yields"} {
			res, err := tx.Exec("DELETE FROM "+table+" WHERE date < ?", cutoff)
			if err != nil {
				return fmt.Errorf("failed to prune %s: %w", table, err)
			}
			n, _ := res.RowsAffected()
			removed += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	done(removed)
	return removed, nil
}
