package pending

import (
	"bullion/util"
	"sync"
)

// Receipts tracks submitted operations whose confirmation outcome is
// still unknown. A submitter that timed out waiting registers the tx
// hash here; when the event synchronizer later surfaces the hash in an
// ingested window, every waiter is released. A hash nobody observed
// simply ages out with Forget.
type Receipts struct {
	mu      sync.Mutex
	waiters map[string][]chan uint64
}

// NewReceipts inits an empty registry.
func NewReceipts() *Receipts {
	return &Receipts{
		waiters: make(map[string][]chan uint64),
	}
}

// Await registers interest in txHash and returns a channel that yields
// the block index once the hash is observed on the ledger.
func (r *Receipts) Await(txHash string) <-chan uint64 {
	txHash = util.NormalizeAddress(txHash)

	ch := make(chan uint64, 1)

	r.mu.Lock()
	r.waiters[txHash] = append(r.waiters[txHash], ch)
	r.mu.Unlock()

	return ch
}

// Resolve releases all waiters of txHash with the block it landed in.
func (r *Receipts) Resolve(txHash string, blockIndex uint64) {
	txHash = util.NormalizeAddress(txHash)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.waiters[txHash] {
		ch <- blockIndex
		close(ch)
	}
	delete(r.waiters, txHash)
}

// Forget drops all waiters of txHash without resolving them.
func (r *Receipts) Forget(txHash string) {
	txHash = util.NormalizeAddress(txHash)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.waiters[txHash] {
		close(ch)
	}
	delete(r.waiters, txHash)
}

// Size returns how many tx hashes are being watched.
func (r *Receipts) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.waiters)
}
