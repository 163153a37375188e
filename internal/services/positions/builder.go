package positions

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bobmccarthy/chainfolio/internal/interfaces"
	"github.com/bobmccarthy/chainfolio/internal/models"
)

// positionBuilder replays a trade list in chronological order and
// accumulates positions and trade links into a shared result bundle. One
// builder serves one calculation run; its registry is discarded afterwards.
type positionBuilder struct {
	resolver interfaces.TokenResolver
	registry *queueRegistry
	result   *models.PositionCalculationResult
}

func newPositionBuilder(resolver interfaces.TokenResolver, result *models.PositionCalculationResult) *positionBuilder {
	return &positionBuilder{
		resolver: resolver,
		registry: newQueueRegistry(),
		result:   result,
	}
}

func newPositionID() string {
	return "pos_" + uuid.NewString()
}

func newPositionTradeID() string {
	return "pt_" + uuid.NewString()
}

// sortTradesChronologically returns a copy sorted ascending by block time.
// Ties on identical block times keep their input order; the ordering
// contract is (blockTime, originalIndex), so FIFO behavior is deterministic
// even when two trades land in the same block.
func sortTradesChronologically(trades []models.TradeRecord) []models.TradeRecord {
	sorted := make([]models.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BlockTime.Before(sorted[j].BlockTime)
	})
	return sorted
}

// run replays the trades and flushes leftover inventory into open positions.
func (b *positionBuilder) run(trades []models.TradeRecord) {
	for _, trade := range sortTradesChronologically(trades) {
		b.processTrade(trade)
	}
	b.flushOpenPositions()
}

// processTrade applies one trade to the FIFO state. A panic while handling
// a single trade is recorded against that trade and must never abort the
// rest of the run.
func (b *positionBuilder) processTrade(trade models.TradeRecord) {
	defer func() {
		if r := recover(); r != nil {
			b.result.Errors = append(b.result.Errors,
				fmt.Sprintf("failed to process trade %s: %v", trade.ID, r))
		}
	}()

	classified, err := classifyTrade(trade)
	if err != nil {
		// Invalid trade data: skip without touching inventory.
		b.result.Warnings = append(b.result.Warnings,
			fmt.Sprintf("skipping invalid trade %s: %v", trade.ID, err))
		return
	}

	queue := b.registry.get(trade.WalletAddress, classified.Token)

	if classified.IsBuy {
		queue.enqueue(&queueItem{
			Quantity:  classified.Quantity,
			Price:     classified.Price,
			Fees:      trade.Fees,
			TradeID:   trade.ID,
			Timestamp: trade.BlockTime,
		})
		return
	}

	b.closePosition(trade, classified, queue)
}

// closePosition consumes lots for a sell and emits one closed position plus
// its trade links. Entry links are created here, from the lots actually
// consumed, so they always carry the final position id.
func (b *positionBuilder) closePosition(trade models.TradeRecord, classified classifiedTrade, queue *fifoQueue) {
	if queue.empty() {
		b.result.Warnings = append(b.result.Warnings,
			fmt.Sprintf("trade %s sells %s with no prior holdings in wallet %s (possible short position, not modeled)",
				trade.ID, classified.Token, trade.WalletAddress))
		return
	}

	consumed, shortfall := queue.consume(classified.Quantity)
	if shortfall > 0 {
		b.result.Warnings = append(b.result.Warnings,
			fmt.Sprintf("trade %s oversold %s in wallet %s: requested %v, short by %v",
				trade.ID, classified.Token, trade.WalletAddress, classified.Quantity, shortfall))
	}

	var consumedQty, costBasis, entryFees float64
	openDate := consumed[0].Timestamp
	for _, lot := range consumed {
		consumedQty += lot.Quantity
		costBasis += lot.Quantity * lot.Price
		entryFees += lot.Fees
		if lot.Timestamp.Before(openDate) {
			openDate = lot.Timestamp
		}
	}

	// Realized P&L covers only the quantity that was actually available:
	// exit value - cost basis - fees, with no fabricated basis for the
	// oversold remainder.
	exitValue := consumedQty * classified.Price
	totalFees := entryFees + trade.Fees
	closeDate := trade.BlockTime

	position := models.Position{
		ID:            newPositionID(),
		Symbol:        b.resolver.Resolve(classified.Token),
		WalletAddress: trade.WalletAddress,
		OpenDate:      openDate,
		CloseDate:     &closeDate,
		Status:        models.PositionStatusClosed,
		TotalQuantity: consumedQty,
		AvgEntryPrice: costBasis / consumedQty,
		AvgExitPrice:  classified.Price,
		RealizedPnL:   exitValue - costBasis - totalFees,
		UnrealizedPnL: 0,
		Fees:          totalFees,
	}
	b.result.Positions = append(b.result.Positions, position)

	for _, lot := range consumed {
		b.result.PositionTrades = append(b.result.PositionTrades, models.PositionTrade{
			ID:         newPositionTradeID(),
			PositionID: position.ID,
			TradeID:    lot.TradeID,
			Role:       models.PositionTradeRoleEntry,
			Quantity:   lot.Quantity,
			Price:      lot.Price,
			Fees:       lot.Fees,
			Timestamp:  lot.Timestamp,
		})
	}
	b.result.PositionTrades = append(b.result.PositionTrades, models.PositionTrade{
		ID:         newPositionTradeID(),
		PositionID: position.ID,
		TradeID:    trade.ID,
		Role:       models.PositionTradeRoleExit,
		Quantity:   consumedQty,
		Price:      classified.Price,
		Fees:       trade.Fees,
		Timestamp:  trade.BlockTime,
	})
}

// flushOpenPositions turns every queue still holding inventory into one
// open position covering its remaining lots.
func (b *positionBuilder) flushOpenPositions() {
	b.registry.each(func(key queueKey, queue *fifoQueue) {
		if queue.empty() {
			return
		}

		var totalQty, costBasis, fees float64
		openDate := queue.items[0].Timestamp
		for _, item := range queue.items {
			totalQty += item.Quantity
			costBasis += item.Quantity * item.Price
			fees += item.Fees
			if item.Timestamp.Before(openDate) {
				openDate = item.Timestamp
			}
		}

		position := models.Position{
			ID:            newPositionID(),
			Symbol:        b.resolver.Resolve(key.Token),
			WalletAddress: key.Wallet,
			OpenDate:      openDate,
			Status:        models.PositionStatusOpen,
			TotalQuantity: totalQty,
			AvgEntryPrice: costBasis / totalQty,
			UnrealizedPnL: 0,
			Fees:          fees,
		}
		b.result.Positions = append(b.result.Positions, position)

		for _, item := range queue.items {
			b.result.PositionTrades = append(b.result.PositionTrades, models.PositionTrade{
				ID:         newPositionTradeID(),
				PositionID: position.ID,
				TradeID:    item.TradeID,
				Role:       models.PositionTradeRoleEntry,
				Quantity:   item.Quantity,
				Price:      item.Price,
				Fees:       item.Fees,
				Timestamp:  item.Timestamp,
			})
		}
	})
}
