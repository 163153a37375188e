// Package storage provides file-based JSON persistence for Chainfolio.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bobmccarthy/chainfolio/internal/common"
	"github.com/bobmccarthy/chainfolio/internal/interfaces"
	"github.com/bobmccarthy/chainfolio/internal/models"
)

// Compile-time interface checks
var (
	_ interfaces.TradeStore    = (*FileStore)(nil)
	_ interfaces.PositionStore = (*FileStore)(nil)
)

// FileStore provides file-based JSON storage for trade journals and
// position books, one file per wallet.
type FileStore struct {
	basePath string
	logger   *common.Logger
}

// subdirectories defines the directory layout under basePath.
var subdirectories = []string{
	"trades", "positions", "charts",
}

// NewFileStore creates a new FileStore and ensures all subdirectories exist.
func NewFileStore(logger *common.Logger, basePath string) (*FileStore, error) {
	fs := &FileStore{
		basePath: basePath,
		logger:   logger,
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(fs.basePath, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", basePath).Msg("FileStore opened")
	return fs, nil
}

// sanitizeKey makes a key safe for use as a filename.
// Replaces /, \, : with _ and collapses ".." to "_" to prevent path traversal.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// filePath returns the full path for a key in a subdirectory.
func (fs *FileStore) filePath(subdir, key string) string {
	return filepath.Join(fs.basePath, subdir, sanitizeKey(key)+".json")
}

// readJSON reads and unmarshals a JSON file.
func (fs *FileStore) readJSON(subdir, key string, dest interface{}) error {
	path := fs.filePath(subdir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' not found", key)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically: temp
// file in the same directory, then rename.
func (fs *FileStore) writeJSON(subdir, key string, data interface{}) error {
	target := fs.filePath(subdir, key)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	return fs.writeAtomic(target, jsonData)
}

// writeAtomic writes raw bytes via a temp file and rename.
func (fs *FileStore) writeAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// SaveTrades appends trades to each wallet's journal, de-duplicating on
// trade ID. Journals are kept sorted by block time.
func (fs *FileStore) SaveTrades(ctx context.Context, trades []models.TradeRecord) error {
	byWallet := make(map[string][]models.TradeRecord)
	for _, t := range trades {
		byWallet[t.WalletAddress] = append(byWallet[t.WalletAddress], t)
	}

	for wallet, incoming := range byWallet {
		var journal models.TradeJournal
		if err := fs.readJSON("trades", wallet, &journal); err != nil {
			journal = models.TradeJournal{WalletAddress: wallet}
		}

		existing := make(map[string]bool, len(journal.Trades))
		for _, t := range journal.Trades {
			existing[t.ID] = true
		}

		added := 0
		for _, t := range incoming {
			if existing[t.ID] {
				continue
			}
			journal.Trades = append(journal.Trades, t)
			existing[t.ID] = true
			added++
		}

		sort.SliceStable(journal.Trades, func(i, j int) bool {
			return journal.Trades[i].BlockTime.Before(journal.Trades[j].BlockTime)
		})
		journal.UpdatedAt = time.Now()

		if err := fs.writeJSON("trades", wallet, &journal); err != nil {
			return fmt.Errorf("failed to save trades for %s: %w", wallet, err)
		}

		fs.logger.Debug().Str("wallet", wallet).Int("added", added).
			Int("total", len(journal.Trades)).Msg("Trade journal updated")
	}

	return nil
}

// GetTrades returns the stored journal for one wallet. A wallet with no
// journal yields an empty list, not an error.
func (fs *FileStore) GetTrades(ctx context.Context, walletAddress string) ([]models.TradeRecord, error) {
	var journal models.TradeJournal
	if err := fs.readJSON("trades", walletAddress, &journal); err != nil {
		return []models.TradeRecord{}, nil
	}
	return journal.Trades, nil
}

// GetAllTrades returns the stored journals of every wallet combined.
func (fs *FileStore) GetAllTrades(ctx context.Context) ([]models.TradeRecord, error) {
	wallets, err := fs.ListWallets(ctx)
	if err != nil {
		return nil, err
	}

	all := []models.TradeRecord{}
	for _, wallet := range wallets {
		trades, err := fs.GetTrades(ctx, wallet)
		if err != nil {
			return nil, err
		}
		all = append(all, trades...)
	}
	return all, nil
}

// ListWallets returns the wallet addresses with stored journals.
func (fs *FileStore) ListWallets(ctx context.Context) ([]string, error) {
	dir := filepath.Join(fs.basePath, "trades")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	wallets := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		wallets = append(wallets, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(wallets)
	return wallets, nil
}

// SaveBook overwrites the stored position book for one wallet.
func (fs *FileStore) SaveBook(ctx context.Context, book *models.PositionBook) error {
	if book.WalletAddress == "" {
		return fmt.Errorf("position book has no wallet address")
	}
	if err := fs.writeJSON("positions", book.WalletAddress, book); err != nil {
		return fmt.Errorf("failed to save position book for %s: %w", book.WalletAddress, err)
	}
	return nil
}

// GetBook retrieves the stored position book for one wallet.
func (fs *FileStore) GetBook(ctx context.Context, walletAddress string) (*models.PositionBook, error) {
	var book models.PositionBook
	if err := fs.readJSON("positions", walletAddress, &book); err != nil {
		return nil, err
	}
	return &book, nil
}
