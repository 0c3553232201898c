package db

import (
	"bullion/event"
	"bullion/projection"
	"bullion/util"
	"database/sql"
)

// ApplyWindow records one fetched window: every event not yet ingested is
// replayed onto the in-memory state and its row, the touched account rows
// and the advanced cursor are committed in a single transaction. Mirror
// writes and cursor advance being atomic keeps the crash invariant: an
// interrupted window leaves the cursor behind and the next run refetches
// and re-applies it, which the dedup identity makes a no-op.
//
// Returns how many events were newly applied.
func (s *Store) ApplyWindow(st *projection.State, events []*event.Event, upTo uint64) (int, error) {
	applied := []*event.Event{}
	touched := map[string]uint64{}

	for _, e := range events {
		// Keys of events already committed in an earlier window skip the
		// projection entirely; the cache covers steady-state re-fetches.
		if s.seenKeys.hasEvent(e.Key()) {
			continue
		}

		ok, err := st.Apply(e)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}

		applied = append(applied, e)
		for _, address := range touchedAccounts(e) {
			touched[address] = e.BlockIndex
		}
	}

	insertCmd := generateInsertCmdForEvents(applied)

	err := s.transact(func(tx *sql.Tx) error {
		if insertCmd != "" {
			if _, err := tx.Exec(insertCmd); err != nil {
				return err
			}
		}

		for address, blockIndex := range touched {
			acc := st.Account(address)
			if acc == nil {
				continue
			}
			if err := upsertAccount(tx, acc, blockIndex); err != nil {
				return err
			}
		}

		return updateCounter(tx, int64(upTo), st.IsPaused(), st.TotalSupply())
	})
	if err != nil {
		return 0, err
	}

	for _, e := range applied {
		s.seenKeys.addEvent(e.Key())
	}
	for address := range touched {
		s.seenKeys.dropAccount(address)
	}

	st.Prune(upTo)

	return len(applied), nil
}

func touchedAccounts(e *event.Event) []string {
	switch p := e.Payload.(type) {
	case event.Transfer:
		return []string{util.NormalizeAddress(p.From), util.NormalizeAddress(p.To)}
	case event.Mint:
		return []string{util.NormalizeAddress(p.To)}
	case event.Burn:
		return []string{util.NormalizeAddress(p.From)}
	case event.WhitelistUpdated:
		return []string{util.NormalizeAddress(p.Account)}
	case event.RoleGranted:
		return []string{util.NormalizeAddress(p.Account)}
	case event.RoleRevoked:
		return []string{util.NormalizeAddress(p.Account)}
	default:
		return nil
	}
}

// LoadState seeds the in-memory projection from the durable mirror:
// account rows, global flags, and the dedup keys of any events persisted
// above the cursor by an interrupted window.
func (s *Store) LoadState(st *projection.State) (cursor int64, err error) {
	accounts, err := s.GetAllAccounts()
	if err != nil {
		return 0, err
	}

	counter := s.GetCounter()

	appliedKeys, err := s.GetAppliedKeys(counter.Cursor)
	if err != nil {
		return 0, err
	}

	st.Seed(accounts, counter.Paused, counter.TotalSupply, appliedKeys)

	return counter.Cursor, nil
}
