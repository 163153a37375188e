package positions

import (
	"fmt"

	"github.com/bobmccarthy/chainfolio/internal/models"
)

// classifiedTrade is the classifier's view of one trade: which token it
// touches, how much, at what unit price, and whether inventory increases.
type classifiedTrade struct {
	Token    string
	Quantity float64
	Price    float64
	IsBuy    bool
}

// classifyTrade extracts the inventory effect of one trade record.
// Buys book the out leg as inventory received; sells book the in leg as
// inventory disposed. Swaps collapse to a one-sided buy of the received
// token; the given-up leg is not booked as a sell. Callers that need
// symmetric swap accounting must decompose upstream.
func classifyTrade(t models.TradeRecord) (classifiedTrade, error) {
	var c classifiedTrade

	switch t.Type {
	case models.TradeTypeBuy, models.TradeTypeSwap:
		c = classifiedTrade{
			Token:    t.TokenOut,
			Quantity: t.AmountOut,
			Price:    t.PriceOut,
			IsBuy:    true,
		}
	case models.TradeTypeSell:
		c = classifiedTrade{
			Token:    t.TokenIn,
			Quantity: t.AmountIn,
			Price:    t.PriceIn,
			IsBuy:    false,
		}
	default:
		return classifiedTrade{}, fmt.Errorf("unknown trade type %q", t.Type)
	}

	if c.Token == "" {
		return classifiedTrade{}, fmt.Errorf("trade %s has no token for type %s", t.ID, t.Type)
	}
	if c.Quantity <= 0 {
		return classifiedTrade{}, fmt.Errorf("trade %s has non-positive quantity %v", t.ID, c.Quantity)
	}

	return c, nil
}
