package positions

// queueKey identifies one FIFO queue. Lots never match across wallets, so
// the wallet is part of the key.
type queueKey struct {
	Wallet string
	Token  string
}

// queueRegistry owns one FIFO queue per (wallet, token) pair for the
// duration of a single calculation run. Queues are created lazily. A
// registry is call-scoped state: it is never reused across runs, and
// parallel per-wallet runs each get their own.
type queueRegistry struct {
	queues map[queueKey]*fifoQueue
	order  []queueKey // insertion order, for deterministic end-of-run flush
}

func newQueueRegistry() *queueRegistry {
	return &queueRegistry{
		queues: make(map[queueKey]*fifoQueue),
	}
}

// get returns the queue for (wallet, token), creating it on first use.
func (r *queueRegistry) get(wallet, token string) *fifoQueue {
	key := queueKey{Wallet: wallet, Token: token}
	q, ok := r.queues[key]
	if !ok {
		q = &fifoQueue{}
		r.queues[key] = q
		r.order = append(r.order, key)
	}
	return q
}

// each visits every queue in creation order.
func (r *queueRegistry) each(fn func(key queueKey, q *fifoQueue)) {
	for _, key := range r.order {
		fn(key, r.queues[key])
	}
}
