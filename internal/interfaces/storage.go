package interfaces

import (
	"context"

	"github.com/bobmccarthy/chainfolio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	TradeStore() TradeStore
	PositionStore() PositionStore

	// DataPath returns the base data directory path.
	DataPath() string

	// WriteRaw writes arbitrary binary data to a subdirectory atomically.
	// Key is sanitized for safe filenames (e.g. "pnl-chart.png").
	WriteRaw(subdir, key string, data []byte) error

	// Lifecycle
	Close() error
}

// TradeStore persists the normalized trade journal per wallet. The position
// tracker only ever reads from it; writes come from the import surface.
type TradeStore interface {
	// SaveTrades appends trades to each wallet's journal, de-duplicating on
	// trade ID.
	SaveTrades(ctx context.Context, trades []models.TradeRecord) error

	// GetTrades returns the stored journal for one wallet.
	GetTrades(ctx context.Context, walletAddress string) ([]models.TradeRecord, error)

	// GetAllTrades returns the stored journals of every wallet combined.
	GetAllTrades(ctx context.Context) ([]models.TradeRecord, error)

	// ListWallets returns the wallet addresses with stored journals.
	ListWallets(ctx context.Context) ([]string, error)
}

// PositionStore persists calculation output per wallet.
type PositionStore interface {
	// SaveBook overwrites the stored position book for one wallet.
	SaveBook(ctx context.Context, book *models.PositionBook) error

	// GetBook retrieves the stored position book for one wallet.
	GetBook(ctx context.Context, walletAddress string) (*models.PositionBook, error)
}
