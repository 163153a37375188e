// Package interfaces defines service contracts for Chainfolio
package interfaces

import (
	"context"

	"github.com/bobmccarthy/chainfolio/internal/models"
)

// PositionService reconstructs trading positions from raw trade history
// using strict first-in-first-out lot matching.
type PositionService interface {
	// Calculate runs the FIFO tracker over the given trades for a single
	// wallet. When walletAddress is non-empty, trades for other wallets are
	// ignored. It never returns an error for malformed-but-iterable input;
	// per-trade failures land in the result's Errors slice.
	Calculate(ctx context.Context, trades []models.TradeRecord, walletAddress string) *models.PositionCalculationResult

	// CalculateAll partitions a mixed trade list by wallet, runs the tracker
	// per wallet over fully isolated FIFO state, and merges the results.
	// Lots never match across wallets.
	CalculateAll(ctx context.Context, trades []models.TradeRecord) *models.PositionCalculationResult

	// ValidateManualGrouping checks a user-overridden positionID -> tradeIDs
	// mapping for coverage, duplicates, token consistency, and chronological
	// order. It is a pure integrity check and touches no FIFO state.
	ValidateManualGrouping(trades []models.TradeRecord, grouping map[string][]string) *models.GroupingReport
}

// TokenResolver maps a token mint address to a display symbol. The tracker
// core stays agnostic of any specific chain's token registry; callers inject
// whatever lookup they have.
type TokenResolver interface {
	Resolve(mint string) string
}
