package domain

// PriceHistory supplies chronological (oldest first) closing prices for a ticker.
// Implementations return an empty slice, not an error, for unknown tickers.
type PriceHistory interface {
	GetCloses(ticker string, limit int) ([]float64, error)
}

// SnapshotSource supplies the latest snapshot of every tracked asset
type SnapshotSource interface {
	All() []AssetSnapshot
}
