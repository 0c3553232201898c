package tasks

import (
	"bullion/asset"
	"bullion/config"
	"bullion/event"
	"bullion/log"
	"bullion/mail"
	"bullion/pending"
	"bullion/projection"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// SyncState is the synchronizer's lifecycle state.
type SyncState int32

const (
	// StateStopped means the loop is not running.
	StateStopped SyncState = iota
	// StateInitializing means the cursor is being loaded or pinned.
	StateInitializing
	// StatePolling means windows are being fetched and applied.
	StatePolling
	// StateBackoff means a transport failure delayed the next poll.
	StateBackoff
)

func (s SyncState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateInitializing:
		return "initializing"
	case StatePolling:
		return "polling"
	case StateBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// LedgerSource is the slice of the ledger client the synchronizer reads.
type LedgerSource interface {
	HeadBlock() (uint64, error)
	EventsInRange(fromBlock, toBlock uint64, kind event.Kind) ([]*event.Event, error)
	Metadata() (*asset.Metadata, error)
}

// WindowStore is the durable mirror the synchronizer feeds.
type WindowStore interface {
	LoadState(st *projection.State) (cursor int64, err error)
	SetCursor(cursor int64) error
	ApplyWindow(st *projection.State, events []*event.Event, upTo uint64) (int, error)
	SaveMetadata(m *asset.Metadata) error
}

// Synchronizer converges the mirror to the ledger's event history.
// One sequential worker: window N may depend on effects of window N-1
// and the cursor is a single serialized checkpoint, so windows are never
// processed concurrently.
type Synchronizer struct {
	source   LedgerSource
	store    WindowStore
	state    *projection.State
	receipts *pending.Receipts

	cfg     config.SyncConfig
	workers int

	cursor    int64
	syncState int32
	failures  int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}

	progress Progress
}

// NewSynchronizer wires a synchronizer; Start launches it.
func NewSynchronizer(source LedgerSource, store WindowStore, state *projection.State, receipts *pending.Receipts, cfg config.SyncConfig, workers int) *Synchronizer {
	if workers < 1 {
		workers = 1
	}
	if cfg.WindowSize < 1 {
		cfg.WindowSize = 1
	}

	return &Synchronizer{
		source:   source,
		store:    store,
		state:    state,
		receipts: receipts,
		cfg:      cfg,
		workers:  workers,
		cursor:   -1,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() SyncState {
	return SyncState(atomic.LoadInt32(&s.syncState))
}

// Cursor returns the highest fully ingested block, -1 before the first
// window completes on a cold store.
func (s *Synchronizer) Cursor() int64 {
	return atomic.LoadInt64(&s.cursor)
}

func (s *Synchronizer) setState(state SyncState) {
	atomic.StoreInt32(&s.syncState, int32(state))
}

// Start runs the polling loop in its own goroutine.
func (s *Synchronizer) Start() {
	go s.run()
}

// Stop halts the loop between windows, never mid-window, and blocks
// until it has fully wound down. The synchronizer is restartable by
// constructing a new one over the same store.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Synchronizer) run() {
	defer close(s.done)
	defer s.setState(StateStopped)
	defer mail.AlertIfErr()

	s.setState(StateInitializing)
	if !s.initialize() {
		return
	}

	s.setState(StatePolling)
	log.Printf("Event sync started at cursor %d\n", s.Cursor())

	for {
		select {
		case <-s.stop:
			log.Printf("Event sync stopped at cursor %d\n", s.Cursor())
			return
		default:
		}

		if !s.pollOnce() {
			return
		}
	}
}

// initialize loads the durable cursor; a cold store starts at the
// configured genesis block, or at the ledger's current head so a fresh
// deployment skips history. Reports false when stopped while waiting.
func (s *Synchronizer) initialize() bool {
	cursor, err := s.store.LoadState(s.state)
	if err != nil {
		panic(err)
	}

	if cursor < 0 {
		if s.cfg.GenesisBlock >= 0 {
			cursor = s.cfg.GenesisBlock - 1
		} else {
			head, ok := s.waitHeadBlock()
			if !ok {
				return false
			}
			cursor = int64(head)
		}

		if err := s.store.SetCursor(cursor); err != nil {
			panic(err)
		}
	}

	atomic.StoreInt64(&s.cursor, cursor)
	return true
}

// waitHeadBlock retries the head query with backoff until it succeeds
// or the synchronizer is stopped.
func (s *Synchronizer) waitHeadBlock() (uint64, bool) {
	for {
		head, err := s.source.HeadBlock()
		if err == nil {
			s.failures = 0
			return head, true
		}

		if !s.backoff(err) {
			return 0, false
		}
	}
}

// pollOnce runs one iteration: head probe, window fetch, window apply.
// Reports false when the loop must terminate.
func (s *Synchronizer) pollOnce() bool {
	head, err := s.source.HeadBlock()
	if err != nil {
		return s.backoff(err)
	}

	s.setState(StatePolling)
	s.failures = 0

	cursor := s.Cursor()
	if int64(head) <= cursor {
		return s.sleep(time.Duration(s.cfg.IntervalSec) * time.Second)
	}

	from := uint64(cursor + 1)
	to := from + s.cfg.WindowSize - 1
	if to > head {
		to = head
	}

	events, err := s.fetchWindow(from, to)
	if err != nil {
		return s.backoff(err)
	}

	event.Sort(events)

	applied, err := s.store.ApplyWindow(s.state, events, to)
	if err != nil {
		if v, ok := err.(*projection.IntegrityViolation); ok {
			// A modeling bug or missed event; never absorbed silently.
			log.Error.Println(v)
			mail.SendNotify("Ledger mirror integrity violation", v.Error())
			return false
		}
		panic(err)
	}

	atomic.StoreInt64(&s.cursor, int64(to))

	s.resolveReceipts(events)
	s.refreshMetadata(events)
	s.showSyncProgress(int64(to), int64(head), applied)

	if to >= head {
		return s.sleep(time.Duration(s.cfg.IntervalSec) * time.Second)
	}

	// Still catching up; poll the next window immediately.
	return true
}

// fetchWindow pulls every known event kind within [from, to], fanning
// the per-kind queries over the configured worker count.
func (s *Synchronizer) fetchWindow(from, to uint64) ([]*event.Event, error) {
	type result struct {
		events []*event.Event
		err    error
	}

	kinds := make(chan event.Kind, len(event.Kinds))
	for _, kind := range event.Kinds {
		kinds <- kind
	}
	close(kinds)

	results := make(chan result, len(event.Kinds))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for kind := range kinds {
				events, err := s.source.EventsInRange(from, to, kind)
				results <- result{events: events, err: err}
			}
		}()
	}

	wg.Wait()
	close(results)

	all := []*event.Event{}
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		all = append(all, r.events...)
	}

	return all, nil
}

// resolveReceipts releases submitters whose confirmation wait timed out
// but whose operation landed and was just ingested.
func (s *Synchronizer) resolveReceipts(events []*event.Event) {
	if s.receipts == nil {
		return
	}

	for _, e := range events {
		s.receipts.Resolve(e.TxHash, e.BlockIndex)
	}
}

// refreshMetadata re-mirrors the asset document when a window carried a
// MetadataUpdated event. Failures are logged and retried on the next
// occurrence; the snapshot is a convenience copy, not ledger state.
func (s *Synchronizer) refreshMetadata(events []*event.Event) {
	updated := false
	for _, e := range events {
		if e.Payload.Kind() == event.KindMetadataUpdated {
			updated = true
			break
		}
	}
	if !updated {
		return
	}

	m, err := s.source.Metadata()
	if err != nil {
		log.Error.Printf("Failed to refresh asset metadata: %v\n", err)
		return
	}

	if err := s.store.SaveMetadata(m); err != nil {
		panic(err)
	}
}

// backoff delays the next poll after a transport failure, doubling up to
// the configured ceiling. Failures never kill the loop; an operator is
// mailed once they pile up past the alert threshold. Reports false when
// stopped while waiting.
func (s *Synchronizer) backoff(err error) bool {
	s.setState(StateBackoff)
	s.failures++

	delay := time.Second << uint(s.failures-1)
	ceiling := time.Duration(s.cfg.BackoffCeilingSec) * time.Second
	if delay > ceiling || delay <= 0 {
		delay = ceiling
	}

	log.Printf("Ledger poll failed (consecutive=%d), backing off %s: %v\n", s.failures, delay, err)

	if s.failures == s.cfg.AlertAfterFailures {
		msg := fmt.Sprintf("Event sync hit %d consecutive transport failures.\nLast error: %v", s.failures, err)
		mail.SendNotify("Ledger connectivity degraded", msg)
	}

	return s.sleep(delay)
}

// sleep waits for d unless stopped first. Reports false when stopped.
func (s *Synchronizer) sleep(d time.Duration) bool {
	select {
	case <-s.stop:
		log.Printf("Event sync stopped at cursor %d\n", s.Cursor())
		return false
	case <-time.After(d):
		return true
	}
}
