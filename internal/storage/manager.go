package storage

import (
	"fmt"
	"path/filepath"

	"github.com/bobmccarthy/chainfolio/internal/common"
	"github.com/bobmccarthy/chainfolio/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager coordinates the storage backends. Both stores are currently
// backed by one FileStore over the configured data directory.
type Manager struct {
	fileStore *FileStore
	logger    *common.Logger
}

// NewManager creates a storage manager rooted at the configured data path.
func NewManager(logger *common.Logger, config *common.StorageConfig) (*Manager, error) {
	fileStore, err := NewFileStore(logger, config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file store: %w", err)
	}

	return &Manager{
		fileStore: fileStore,
		logger:    logger,
	}, nil
}

// TradeStore returns the trade journal store.
func (m *Manager) TradeStore() interfaces.TradeStore {
	return m.fileStore
}

// PositionStore returns the position book store.
func (m *Manager) PositionStore() interfaces.PositionStore {
	return m.fileStore
}

// DataPath returns the base data directory path.
func (m *Manager) DataPath() string {
	return m.fileStore.basePath
}

// WriteRaw writes arbitrary binary data to a subdirectory atomically.
func (m *Manager) WriteRaw(subdir, key string, data []byte) error {
	target := filepath.Join(m.fileStore.basePath, subdir, sanitizeKey(key))
	return m.fileStore.writeAtomic(target, data)
}

// Close releases storage resources. File-backed stores hold no open
// handles between operations, so this is a no-op kept for the interface.
func (m *Manager) Close() error {
	return nil
}
