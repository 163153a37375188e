// Package positions reconstructs open and closed trading positions from raw
// wallet trade history using strict first-in-first-out lot matching.
package positions

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bobmccarthy/chainfolio/internal/common"
	"github.com/bobmccarthy/chainfolio/internal/interfaces"
	"github.com/bobmccarthy/chainfolio/internal/models"
)

// Compile-time interface check
var _ interfaces.PositionService = (*Service)(nil)

// Service implements PositionService
type Service struct {
	resolver interfaces.TokenResolver
	logger   *common.Logger
}

// NewService creates a new position service
func NewService(resolver interfaces.TokenResolver, logger *common.Logger) *Service {
	if resolver == nil {
		resolver = NewMapResolver(nil)
	}
	return &Service{
		resolver: resolver,
		logger:   logger,
	}
}

// Calculate runs the FIFO tracker over the given trades. When walletAddress
// is non-empty, trades for other wallets are ignored. FIFO state lives only
// for the duration of this call; every invocation replays from scratch.
// Calculate never panics outward: a top-level failure surfaces as one
// "Fatal error" entry and whatever partial output was produced is returned.
func (s *Service) Calculate(ctx context.Context, trades []models.TradeRecord, walletAddress string) (result *models.PositionCalculationResult) {
	result = models.NewPositionCalculationResult()

	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Fatal error calculating positions: %v", r))
		}
	}()

	if walletAddress != "" {
		filtered := make([]models.TradeRecord, 0, len(trades))
		for _, t := range trades {
			if t.WalletAddress == walletAddress {
				filtered = append(filtered, t)
			}
		}
		trades = filtered
	}

	builder := newPositionBuilder(s.resolver, result)
	builder.run(trades)

	s.logger.Debug().
		Str("wallet", walletAddress).
		Int("trades", len(trades)).
		Int("positions", len(result.Positions)).
		Int("errors", len(result.Errors)).
		Int("warnings", len(result.Warnings)).
		Msg("Position calculation complete")

	return result
}

// CalculateAll partitions a mixed trade list by wallet and runs the tracker
// per wallet in parallel. Each wallet gets its own builder and queue
// registry, so no FIFO state is shared between workers; results merge in
// deterministic wallet order.
func (s *Service) CalculateAll(ctx context.Context, trades []models.TradeRecord) *models.PositionCalculationResult {
	result := models.NewPositionCalculationResult()

	byWallet := make(map[string][]models.TradeRecord)
	for _, t := range trades {
		byWallet[t.WalletAddress] = append(byWallet[t.WalletAddress], t)
	}

	wallets := make([]string, 0, len(byWallet))
	for w := range byWallet {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)

	partials := make([]*models.PositionCalculationResult, len(wallets))
	g, ctx := errgroup.WithContext(ctx)
	for i, wallet := range wallets {
		i, wallet := i, wallet
		g.Go(func() error {
			partials[i] = s.Calculate(ctx, byWallet[wallet], wallet)
			return nil
		})
	}
	g.Wait() // workers report through their result bundles, never via error

	for _, partial := range partials {
		result.Merge(partial)
	}

	s.logger.Info().
		Int("wallets", len(wallets)).
		Int("trades", len(trades)).
		Int("positions", len(result.Positions)).
		Msg("Multi-wallet position calculation complete")

	return result
}
