package models

import (
	"time"
)

// PositionStatus indicates whether a position still holds inventory
type PositionStatus string

const (
	PositionStatusOpen   PositionStatus = "open"
	PositionStatusClosed PositionStatus = "closed"
)

// PositionTradeRole identifies which side of a position a trade link sits on
type PositionTradeRole string

const (
	PositionTradeRoleEntry PositionTradeRole = "entry"
	PositionTradeRoleExit  PositionTradeRole = "exit"
)

// Position is one reconstructed holding for a (wallet, token) pair.
// A closed position is emitted once per sell event and covers exactly the
// quantity that sell consumed; an open position is emitted once per leftover
// FIFO queue at the end of a calculation run. Positions are never mutated
// after creation within a run.
type Position struct {
	ID            string         `json:"id"`
	Symbol        string         `json:"symbol"` // display symbol resolved from the token mint
	WalletAddress string         `json:"wallet_address"`
	OpenDate      time.Time      `json:"open_date"`            // earliest lot timestamp covered
	CloseDate     *time.Time     `json:"close_date,omitempty"` // nil for open positions
	Status        PositionStatus `json:"status"`
	TotalQuantity float64        `json:"total_quantity"`
	AvgEntryPrice float64        `json:"avg_entry_price"` // cost-basis weighted
	AvgExitPrice  float64        `json:"avg_exit_price,omitempty"`
	RealizedPnL   float64        `json:"realized_pnl"`
	UnrealizedPnL float64        `json:"unrealized_pnl"` // always 0: no live pricing in this core
	Fees          float64        `json:"fees"`           // entry + exit fees, pro-rated for partial lots
}

// PositionTrade links a position to one trade (or lot fragment) that formed
// it. Closed positions carry one entry row per consumed lot fragment plus
// exactly one exit row for the triggering sell.
type PositionTrade struct {
	ID         string            `json:"id"`
	PositionID string            `json:"position_id"`
	TradeID    string            `json:"trade_id"`
	Role       PositionTradeRole `json:"role"`
	Quantity   float64           `json:"quantity"`
	Price      float64           `json:"price"`
	Fees       float64           `json:"fees"`
	Timestamp  time.Time         `json:"timestamp"`
}

// PositionCalculationResult is the output bundle of one calculation run.
// Errors record per-trade failures that were skipped; warnings record
// recoverable anomalies (oversold inventory, invalid trade data). Both are
// advisory and never abort the run.
type PositionCalculationResult struct {
	Positions      []Position      `json:"positions"`
	PositionTrades []PositionTrade `json:"position_trades"`
	Errors         []string        `json:"errors"`
	Warnings       []string        `json:"warnings"`
}

// NewPositionCalculationResult returns an empty result with non-nil slices.
func NewPositionCalculationResult() *PositionCalculationResult {
	return &PositionCalculationResult{
		Positions:      []Position{},
		PositionTrades: []PositionTrade{},
		Errors:         []string{},
		Warnings:       []string{},
	}
}

// Merge appends another result's positions, trade links, and diagnostics.
func (r *PositionCalculationResult) Merge(other *PositionCalculationResult) {
	if other == nil {
		return
	}
	r.Positions = append(r.Positions, other.Positions...)
	r.PositionTrades = append(r.PositionTrades, other.PositionTrades...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// PositionBook is the persisted calculation output for one wallet.
type PositionBook struct {
	WalletAddress  string          `json:"wallet_address"`
	Positions      []Position      `json:"positions"`
	PositionTrades []PositionTrade `json:"position_trades"`
	CalculatedAt   time.Time       `json:"calculated_at"`
}

// GroupingReport is the outcome of validating a manual trade-to-position
// grouping. Valid is true exactly when Errors is empty.
type GroupingReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// PnLPoint is one point in the cumulative realized P&L time series derived
// from closed positions. Computed on demand for charting, not stored.
type PnLPoint struct {
	Date        time.Time `json:"date"`
	RealizedPnL float64   `json:"realized_pnl"` // cumulative as of Date
}
