package positions

import (
	"time"
)

// queueItem is one open lot: a quantity of a token acquired at a specific
// price and time, tracked until fully consumed. Quantity and Fees shrink
// together on partial consumption; Price, TradeID and Timestamp never change.
type queueItem struct {
	Quantity  float64
	Price     float64
	Fees      float64
	TradeID   string
	Timestamp time.Time
}

// lotConsumption records one whole or partial lot taken by a disposal.
type lotConsumption struct {
	Quantity  float64
	Price     float64
	Fees      float64
	TradeID   string
	Timestamp time.Time
}

// fifoQueue is the ordered, oldest-first open-lot inventory for one
// (wallet, token) pair. Ordering is strictly insertion order, never
// price-based.
type fifoQueue struct {
	items []*queueItem
}

// enqueue appends a lot at the tail.
func (q *fifoQueue) enqueue(item *queueItem) {
	q.items = append(q.items, item)
}

// empty reports whether the queue holds no open lots.
func (q *fifoQueue) empty() bool {
	return len(q.items) == 0
}

// consume takes up to quantity from the head of the queue. Whole lots are
// removed; a lot larger than the remainder is split, with its fees
// attributed pro-rata to the taken fraction and the rest left on the head.
// The returned shortfall is the unfilled remainder when the queue empties
// first (oversold); consumed lots never cover inventory that never existed.
func (q *fifoQueue) consume(quantity float64) (consumed []lotConsumption, shortfall float64) {
	remainder := quantity

	for remainder > 0 && len(q.items) > 0 {
		head := q.items[0]

		if head.Quantity <= remainder {
			consumed = append(consumed, lotConsumption{
				Quantity:  head.Quantity,
				Price:     head.Price,
				Fees:      head.Fees,
				TradeID:   head.TradeID,
				Timestamp: head.Timestamp,
			})
			remainder -= head.Quantity
			q.items = q.items[1:]
			continue
		}

		feeShare := head.Fees * (remainder / head.Quantity)
		consumed = append(consumed, lotConsumption{
			Quantity:  remainder,
			Price:     head.Price,
			Fees:      feeShare,
			TradeID:   head.TradeID,
			Timestamp: head.Timestamp,
		})
		head.Quantity -= remainder
		head.Fees -= feeShare
		remainder = 0
	}

	return consumed, remainder
}
