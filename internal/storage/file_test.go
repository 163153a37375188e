package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmccarthy/chainfolio/internal/common"
	"github.com/bobmccarthy/chainfolio/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	return fs
}

func testTrade(id, wallet string, at time.Time) models.TradeRecord {
	return models.TradeRecord{
		ID:            id,
		WalletAddress: wallet,
		Type:          models.TradeTypeBuy,
		TokenOut:      "SOL",
		AmountOut:     1,
		PriceOut:      100,
		BlockTime:     at,
	}
}

func TestFileStore_SaveAndGetTrades(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	err := fs.SaveTrades(ctx, []models.TradeRecord{
		testTrade("t2", "w1", base.Add(time.Hour)),
		testTrade("t1", "w1", base),
	})
	require.NoError(t, err)

	trades, err := fs.GetTrades(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	// Journal is stored sorted by block time.
	assert.Equal(t, "t1", trades[0].ID)
	assert.Equal(t, "t2", trades[1].ID)
}

func TestFileStore_SaveTradesDeduplicates(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, fs.SaveTrades(ctx, []models.TradeRecord{testTrade("t1", "w1", base)}))
	require.NoError(t, fs.SaveTrades(ctx, []models.TradeRecord{
		testTrade("t1", "w1", base),
		testTrade("t2", "w1", base.Add(time.Minute)),
	}))

	trades, err := fs.GetTrades(ctx, "w1")
	require.NoError(t, err)
	assert.Len(t, trades, 2)
}

func TestFileStore_GetTradesUnknownWallet(t *testing.T) {
	fs := newTestStore(t)

	trades, err := fs.GetTrades(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestFileStore_ListWalletsAndGetAllTrades(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, fs.SaveTrades(ctx, []models.TradeRecord{
		testTrade("a1", "walletA", base),
		testTrade("b1", "walletB", base),
		testTrade("b2", "walletB", base.Add(time.Minute)),
	}))

	wallets, err := fs.ListWallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"walletA", "walletB"}, wallets)

	all, err := fs.GetAllTrades(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFileStore_SaveAndGetBook(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()

	book := &models.PositionBook{
		WalletAddress: "w1",
		Positions: []models.Position{
			{ID: "pos_1", Symbol: "SOL", WalletAddress: "w1", Status: models.PositionStatusOpen, TotalQuantity: 5},
		},
		PositionTrades: []models.PositionTrade{
			{ID: "pt_1", PositionID: "pos_1", TradeID: "t1", Role: models.PositionTradeRoleEntry, Quantity: 5},
		},
		CalculatedAt: time.Now().UTC(),
	}

	require.NoError(t, fs.SaveBook(ctx, book))

	loaded, err := fs.GetBook(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, loaded.Positions, 1)
	assert.Equal(t, "pos_1", loaded.Positions[0].ID)
	require.Len(t, loaded.PositionTrades, 1)
	assert.Equal(t, models.PositionTradeRoleEntry, loaded.PositionTrades[0].Role)
}

func TestFileStore_SaveBookRequiresWallet(t *testing.T) {
	fs := newTestStore(t)
	err := fs.SaveBook(context.Background(), &models.PositionBook{})
	assert.Error(t, err)
}

func TestFileStore_GetBookNotFound(t *testing.T) {
	fs := newTestStore(t)
	_, err := fs.GetBook(context.Background(), "missing")
	assert.Error(t, err)
}

func TestManager_WriteRaw(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(common.NewSilentLogger(), &common.StorageConfig{Path: dir})
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.WriteRaw("charts", "w1-pnl.png", []byte{0x89, 'P', 'N', 'G'}))

	data, err := os.ReadFile(filepath.Join(dir, "charts", "w1-pnl.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeKey("a/b:c"))
	assert.Equal(t, "__secret", sanitizeKey("../secret"))
}
