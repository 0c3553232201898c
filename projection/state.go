package projection

import (
	"bullion/account"
	"bullion/event"
	"bullion/util"
	"math/big"
	"sync"
)

// State is the in-memory mirror of ledger account state, built solely by
// replaying ingested events. It backs the pre-validation rules as their
// read view and feeds the durable mirror the post-apply values to persist.
// A single lock covers reads and event application so both are linearizable.
type State struct {
	mu sync.Mutex

	accounts    map[string]*account.Account
	paused      bool
	totalSupply *big.Int

	// applied records dedup keys of events above the durable cursor,
	// mapped to their block index so they can be pruned once the cursor
	// passes them. Everything at or below the cursor is implicitly applied.
	applied map[event.Key]uint64

	// halted is set on the first integrity violation. Ingestion must not
	// continue past impossible state; the violation is for an operator.
	halted error
}

// NewState returns an empty mirror.
func NewState() *State {
	return &State{
		accounts:    make(map[string]*account.Account),
		totalSupply: new(big.Int),
		applied:     make(map[event.Key]uint64),
	}
}

// Seed replaces the mirror content with a snapshot loaded from storage.
func (s *State) Seed(accounts []*account.Account, paused bool, totalSupply *big.Int, applied map[event.Key]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[string]*account.Account, len(accounts))
	for _, acc := range accounts {
		s.accounts[util.NormalizeAddress(acc.Address)] = acc
	}

	s.paused = paused
	s.totalSupply = new(big.Int).Set(totalSupply)

	s.applied = make(map[event.Key]uint64, len(applied))
	for k, v := range applied {
		s.applied[k] = v
	}
}

// Apply replays one event onto the mirror. It reports false if the event
// was already applied (same deduplication key), which makes replaying a
// crashed window a no-op. Amount arithmetic that would drive a balance or
// the total supply negative means a missed or misordered event; Apply
// refuses it, remembers the violation and rejects everything afterwards.
func (s *State) Apply(e *event.Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.halted != nil {
		return false, s.halted
	}

	key := e.Key()
	if _, ok := s.applied[key]; ok {
		return false, nil
	}

	if err := s.apply(e); err != nil {
		s.halted = err
		return false, err
	}

	s.applied[key] = e.BlockIndex
	return true, nil
}

func (s *State) apply(e *event.Event) error {
	switch p := e.Payload.(type) {
	case event.Transfer:
		if err := s.debit(p.From, p.Amount, e); err != nil {
			return err
		}
		s.credit(p.To, p.Amount)

	case event.Mint:
		s.credit(p.To, p.Amount)
		s.totalSupply.Add(s.totalSupply, p.Amount)

	case event.Burn:
		if err := s.debit(p.From, p.Amount, e); err != nil {
			return err
		}
		if s.totalSupply.Cmp(p.Amount) < 0 {
			return &IntegrityViolation{
				Key:    e.Key(),
				Detail: "burn exceeds total supply",
			}
		}
		s.totalSupply.Sub(s.totalSupply, p.Amount)

	case event.WhitelistUpdated:
		s.getOrCreate(p.Account).Whitelisted = p.Status

	case event.Paused:
		s.paused = true

	case event.Unpaused:
		s.paused = false

	case event.RoleGranted:
		s.getOrCreate(p.Account).Roles.Grant(account.Role(p.Role))

	case event.RoleRevoked:
		s.getOrCreate(p.Account).Roles.Revoke(account.Role(p.Role))

	case event.MetadataUpdated:
		// Metadata is mirrored from the ledger on demand, not projected.

	default:
		return &IntegrityViolation{
			Key:    e.Key(),
			Detail: "unknown event payload",
		}
	}

	return nil
}

func (s *State) credit(address string, amount *big.Int) {
	acc := s.getOrCreate(address)
	acc.Balance.Add(acc.Balance, amount)
}

func (s *State) debit(address string, amount *big.Int, e *event.Event) error {
	acc := s.getOrCreate(address)
	if acc.Balance.Cmp(amount) < 0 {
		return &IntegrityViolation{
			Key:     e.Key(),
			Account: util.NormalizeAddress(address),
			Detail:  "balance would go negative",
		}
	}

	acc.Balance.Sub(acc.Balance, amount)
	return nil
}

func (s *State) getOrCreate(address string) *account.Account {
	address = util.NormalizeAddress(address)
	acc, ok := s.accounts[address]
	if !ok {
		acc = account.New(address)
		s.accounts[address] = acc
	}
	return acc
}

// Prune drops dedup keys at or below the durable cursor; those blocks
// will never be fetched again.
func (s *State) Prune(cursor uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, blockIndex := range s.applied {
		if blockIndex <= cursor {
			delete(s.applied, key)
		}
	}
}

// Halted returns the integrity violation that stopped ingestion, if any.
func (s *State) Halted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.halted
}

// Account returns a copy of the mirrored account, or nil if never seen.
func (s *State) Account(address string) *account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[util.NormalizeAddress(address)]
	if !ok {
		return nil
	}
	return acc.Copy()
}

// IsPaused returns the mirrored global compliance switch.
func (s *State) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paused
}

// TotalSupply returns the mirrored running total supply.
func (s *State) TotalSupply() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return new(big.Int).Set(s.totalSupply)
}

// SumBalances adds up every mirrored balance. After any sequence of
// applied events it must equal the total supply.
func (s *State) SumBalances() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := new(big.Int)
	for _, acc := range s.accounts {
		sum.Add(sum, acc.Balance)
	}
	return sum
}

// Accounts returns copies of all mirrored accounts.
func (s *State) Accounts() []*account.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*account.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, acc.Copy())
	}
	return accounts
}
