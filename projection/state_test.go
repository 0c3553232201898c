package projection

import (
	"bullion/event"
	"bullion/ledger"
	"math/big"
	"testing"
)

const (
	alice = "0x2000000000000000000000000000000000000001"
	bob   = "0x2000000000000000000000000000000000000002"
)

func mintScenario() []*event.Event {
	// Whitelist A, mint 1000 to A, whitelist B, A transfers 400 to B.
	return []*event.Event{
		{TxHash: "0x01", BlockIndex: 1, LogIndex: 0, Payload: event.WhitelistUpdated{Account: alice, Status: true}},
		{TxHash: "0x02", BlockIndex: 2, LogIndex: 0, Payload: event.Mint{To: alice, Amount: big.NewInt(1000), Reason: "vault intake"}},
		{TxHash: "0x03", BlockIndex: 3, LogIndex: 0, Payload: event.WhitelistUpdated{Account: bob, Status: true}},
		{TxHash: "0x04", BlockIndex: 4, LogIndex: 0, Payload: event.Transfer{From: alice, To: bob, Amount: big.NewInt(400)}},
	}
}

func applyAll(t *testing.T, s *State, events []*event.Event) {
	t.Helper()
	for _, e := range events {
		if _, err := s.Apply(e); err != nil {
			t.Fatalf("Apply failed at %s: %v", e.Key(), err)
		}
	}
}

func TestProjectionScenario(t *testing.T) {
	s := NewState()
	applyAll(t, s, mintScenario())

	if got := s.Account(alice).Balance; got.Cmp(big.NewInt(600)) != 0 {
		t.Errorf("Alice balance = %s, want 600", got)
	}
	if got := s.Account(bob).Balance; got.Cmp(big.NewInt(400)) != 0 {
		t.Errorf("Bob balance = %s, want 400", got)
	}
	if got := s.TotalSupply(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("Total supply = %s, want 1000", got)
	}
}

func TestSumBalancesEqualsTotalSupply(t *testing.T) {
	s := NewState()

	// The invariant must hold after every single event.
	for _, e := range mintScenario() {
		if _, err := s.Apply(e); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if s.SumBalances().Cmp(s.TotalSupply()) != 0 {
			t.Fatalf("After %s: sum(balances)=%s, totalSupply=%s",
				e.Key(), s.SumBalances(), s.TotalSupply())
		}
	}

	burn := &event.Event{TxHash: "0x05", BlockIndex: 5, Payload: event.Burn{From: bob, Amount: big.NewInt(100), Reason: "vault release"}}
	if _, err := s.Apply(burn); err != nil {
		t.Fatalf("Burn failed: %v", err)
	}
	if s.SumBalances().Cmp(s.TotalSupply()) != 0 {
		t.Errorf("After burn: sum(balances)=%s, totalSupply=%s", s.SumBalances(), s.TotalSupply())
	}
	if s.TotalSupply().Cmp(big.NewInt(900)) != 0 {
		t.Errorf("Total supply after burn = %s, want 900", s.TotalSupply())
	}
}

func TestReplayIsNoOp(t *testing.T) {
	s := NewState()
	events := mintScenario()
	applyAll(t, s, events)

	for _, e := range events {
		applied, err := s.Apply(e)
		if err != nil {
			t.Fatalf("Replay errored at %s: %v", e.Key(), err)
		}
		if applied {
			t.Errorf("Replay of %s applied a second time", e.Key())
		}
	}

	if got := s.Account(alice).Balance; got.Cmp(big.NewInt(600)) != 0 {
		t.Errorf("Alice balance after replay = %s, want 600", got)
	}
	if got := s.TotalSupply(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("Total supply after replay = %s, want 1000", got)
	}
}

func TestDistinctKindsSameTxIngested(t *testing.T) {
	s := NewState()

	// A transfer emitted alongside a whitelist change in one submission.
	applyAll(t, s, []*event.Event{
		{TxHash: "0x0a", BlockIndex: 1, LogIndex: 0, Payload: event.Mint{To: alice, Amount: big.NewInt(10)}},
		{TxHash: "0x0b", BlockIndex: 2, LogIndex: 0, Payload: event.WhitelistUpdated{Account: bob, Status: true}},
		{TxHash: "0x0b", BlockIndex: 2, LogIndex: 1, Payload: event.Transfer{From: alice, To: bob, Amount: big.NewInt(10)}},
	})

	if got := s.Account(bob).Balance; got.Cmp(big.NewInt(10)) != 0 {
		t.Errorf("Bob balance = %s, want 10: both events of tx 0x0b must be ingested", got)
	}
	if !s.Account(bob).Whitelisted {
		t.Error("Whitelist event of tx 0x0b was not ingested")
	}
}

func TestIntegrityViolationHalts(t *testing.T) {
	s := NewState()

	bad := &event.Event{TxHash: "0x01", BlockIndex: 1, Payload: event.Transfer{From: alice, To: bob, Amount: big.NewInt(5)}}
	if _, err := s.Apply(bad); err == nil {
		t.Fatal("Transfer exceeding balance must be an integrity violation")
	} else if _, ok := err.(*IntegrityViolation); !ok {
		t.Fatalf("Got %T, want *IntegrityViolation", err)
	}

	if s.Halted() == nil {
		t.Error("State must stay halted after a violation")
	}

	// Nothing may be absorbed afterwards, not even a valid event.
	good := &event.Event{TxHash: "0x02", BlockIndex: 2, Payload: event.Mint{To: alice, Amount: big.NewInt(5)}}
	if _, err := s.Apply(good); err == nil {
		t.Error("Halted state accepted an event")
	}
}

func TestPauseFlag(t *testing.T) {
	s := NewState()

	applyAll(t, s, []*event.Event{
		{TxHash: "0x01", BlockIndex: 1, Payload: event.Paused{By: alice}},
	})
	if !s.IsPaused() {
		t.Error("Paused event did not set the global flag")
	}

	applyAll(t, s, []*event.Event{
		{TxHash: "0x02", BlockIndex: 2, Payload: event.Unpaused{By: alice}},
	})
	if s.IsPaused() {
		t.Error("Unpaused event did not clear the global flag")
	}
}

func TestPauseGatesTransferRules(t *testing.T) {
	s := NewState()
	applyAll(t, s, mintScenario())

	amount := big.NewInt(100)

	// Pause the ledger: the same transfer must now fail, and pass again
	// after unpausing.
	applyAll(t, s, []*event.Event{
		{TxHash: "0x10", BlockIndex: 10, Payload: event.Paused{By: alice}},
	})
	if err := ledger.CanTransfer(s, alice, bob, amount); err != ledger.ErrPaused {
		t.Errorf("Transfer while paused: got %v, want ErrPaused", err)
	}

	applyAll(t, s, []*event.Event{
		{TxHash: "0x11", BlockIndex: 11, Payload: event.Unpaused{By: alice}},
	})
	if err := ledger.CanTransfer(s, alice, bob, amount); err != nil {
		t.Errorf("Transfer after unpause rejected: %v", err)
	}
}

func TestRoleEvents(t *testing.T) {
	s := NewState()

	applyAll(t, s, []*event.Event{
		{TxHash: "0x01", BlockIndex: 1, Payload: event.RoleGranted{Account: alice, Role: "ISSUER"}},
	})
	if !s.Account(alice).HasRole("ISSUER") {
		t.Error("RoleGranted not projected")
	}

	applyAll(t, s, []*event.Event{
		{TxHash: "0x02", BlockIndex: 2, Payload: event.RoleRevoked{Account: alice, Role: "ISSUER"}},
	})
	if s.Account(alice).HasRole("ISSUER") {
		t.Error("RoleRevoked not projected")
	}
}

func TestSeedAndPrune(t *testing.T) {
	s := NewState()
	events := mintScenario()
	applyAll(t, s, events)

	// Dedup keys at or below the cursor are dropped; replay protection
	// for them comes from never refetching those blocks.
	s.Prune(2)

	late := events[3]
	if applied, _ := s.Apply(late); applied {
		t.Error("Event above the pruned cursor lost its dedup key")
	}

	early := events[1]
	if applied, err := s.Apply(early); err != nil {
		t.Fatalf("Apply after prune errored: %v", err)
	} else if !applied {
		t.Error("Pruned key should allow re-application (blocks below cursor are never refetched)")
	}
}
