// Package models defines data structures for Chainfolio
package models

import (
	"time"
)

// TradeType identifies the kind of trade execution
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
	TradeTypeSwap TradeType = "swap"
)

// ValidTradeType reports whether t is one of the supported trade types.
func ValidTradeType(t TradeType) bool {
	switch t {
	case TradeTypeBuy, TradeTypeSell, TradeTypeSwap:
		return true
	}
	return false
}

// TradeRecord is one already-parsed, already-priced trade execution as
// produced by the import pipeline. It is read-only to the position tracker:
// the tracker trusts the record's shape (non-negative amounts, valid block
// time, known type) and only re-checks quantity positivity.
type TradeRecord struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	Type          TradeType `json:"type"`
	TokenIn       string    `json:"token_in"`             // token given up (mint address)
	TokenOut      string    `json:"token_out"`            // token received (mint address)
	AmountIn      float64   `json:"amount_in"`
	AmountOut     float64   `json:"amount_out"`
	PriceIn       float64   `json:"price_in,omitempty"`   // unit price of the in leg, 0 when unknown
	PriceOut      float64   `json:"price_out,omitempty"`  // unit price of the out leg, 0 when unknown
	Fees          float64   `json:"fees"`
	BlockTime     time.Time `json:"block_time"`
}

// TradeJournal is the stored trade history for one wallet.
type TradeJournal struct {
	WalletAddress string        `json:"wallet_address"`
	Trades        []TradeRecord `json:"trades"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
