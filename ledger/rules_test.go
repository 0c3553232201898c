package ledger

import (
	"bullion/account"
	"bullion/util"
	"math/big"
	"testing"
)

type fakeView struct {
	accounts map[string]*account.Account
	paused   bool
}

func newFakeView() *fakeView {
	return &fakeView{accounts: make(map[string]*account.Account)}
}

func (v *fakeView) Account(address string) *account.Account {
	return v.accounts[util.NormalizeAddress(address)]
}

func (v *fakeView) IsPaused() bool {
	return v.paused
}

func (v *fakeView) add(address string, balance int64, whitelisted bool, roles ...account.Role) *account.Account {
	acc := account.New(util.NormalizeAddress(address))
	acc.Balance = big.NewInt(balance)
	acc.Whitelisted = whitelisted
	for _, role := range roles {
		acc.Roles.Grant(role)
	}
	v.accounts[acc.Address] = acc
	return acc
}

const (
	issuer = "0x1000000000000000000000000000000000000001"
	admin  = "0x1000000000000000000000000000000000000002"
	root   = "0x1000000000000000000000000000000000000003"
	alice  = "0x2000000000000000000000000000000000000001"
	bob    = "0x2000000000000000000000000000000000000002"
)

func TestCanMint(t *testing.T) {
	v := newFakeView()
	v.add(issuer, 0, false, account.RoleIssuer)
	v.add(alice, 0, true)
	v.add(bob, 0, false)

	if err := CanMint(v, issuer, alice, big.NewInt(100)); err != nil {
		t.Errorf("Valid mint rejected: %v", err)
	}

	if err := CanMint(v, alice, alice, big.NewInt(100)); err != ErrUnauthorized {
		t.Errorf("Mint by non-issuer: got %v, want ErrUnauthorized", err)
	}

	if err := CanMint(v, issuer, bob, big.NewInt(100)); err != ErrNotWhitelisted {
		t.Errorf("Mint to non-whitelisted: got %v, want ErrNotWhitelisted", err)
	}

	if err := CanMint(v, issuer, alice, big.NewInt(0)); err != ErrInvalidAmount {
		t.Errorf("Zero mint: got %v, want ErrInvalidAmount", err)
	}

	v.paused = true
	if err := CanMint(v, issuer, alice, big.NewInt(100)); err != ErrPaused {
		t.Errorf("Mint while paused: got %v, want ErrPaused", err)
	}

	// Role check comes first even while paused.
	if err := CanMint(v, alice, alice, big.NewInt(100)); err != ErrUnauthorized {
		t.Errorf("Check order violated: got %v, want ErrUnauthorized", err)
	}
}

func TestCanBurn(t *testing.T) {
	v := newFakeView()
	v.add(alice, 500, true)

	if err := CanBurn(v, alice, big.NewInt(500)); err != nil {
		t.Errorf("Valid burn rejected: %v", err)
	}

	if err := CanBurn(v, alice, big.NewInt(501)); err != ErrInsufficientBalance {
		t.Errorf("Overdrawn burn: got %v, want ErrInsufficientBalance", err)
	}

	if err := CanBurn(v, alice, big.NewInt(-1)); err != ErrInvalidAmount {
		t.Errorf("Negative burn: got %v, want ErrInvalidAmount", err)
	}

	v.paused = true
	if err := CanBurn(v, alice, big.NewInt(100)); err != ErrPaused {
		t.Errorf("Burn while paused: got %v, want ErrPaused", err)
	}
}

func TestCanTransfer(t *testing.T) {
	v := newFakeView()
	v.add(alice, 1000, true)
	v.add(bob, 0, false)

	// Whitelist rejection wins regardless of balance sufficiency.
	if err := CanTransfer(v, alice, bob, big.NewInt(1)); err != ErrNotWhitelisted {
		t.Errorf("Transfer to non-whitelisted: got %v, want ErrNotWhitelisted", err)
	}
	if err := CanTransfer(v, bob, alice, big.NewInt(1)); err != ErrNotWhitelisted {
		t.Errorf("Transfer from non-whitelisted: got %v, want ErrNotWhitelisted", err)
	}

	v.accounts[bob].Whitelisted = true
	if err := CanTransfer(v, alice, bob, big.NewInt(400)); err != nil {
		t.Errorf("Valid transfer rejected: %v", err)
	}

	if err := CanTransfer(v, alice, bob, big.NewInt(1001)); err != ErrInsufficientBalance {
		t.Errorf("Overdrawn transfer: got %v, want ErrInsufficientBalance", err)
	}

	// Pause rejection wins regardless of whitelist status.
	v.paused = true
	if err := CanTransfer(v, alice, bob, big.NewInt(400)); err != ErrPaused {
		t.Errorf("Transfer while paused: got %v, want ErrPaused", err)
	}
}

func TestCanTransferZeroIdentifiers(t *testing.T) {
	v := newFakeView()
	v.add(alice, 100, true)
	v.add(util.ZeroAddress, 100, false)

	// The mint origin skips the sender whitelist check; the burn sink
	// skips the recipient one.
	if err := CanTransfer(v, util.ZeroAddress, alice, big.NewInt(50)); err != nil {
		t.Errorf("Transfer from mint origin rejected: %v", err)
	}
	if err := CanTransfer(v, alice, util.ZeroAddress, big.NewInt(50)); err != nil {
		t.Errorf("Transfer to burn sink rejected: %v", err)
	}
}

func TestCanSetWhitelist(t *testing.T) {
	v := newFakeView()
	v.add(admin, 0, false, account.RoleAdmin)
	v.add(alice, 0, true)

	if err := CanSetWhitelist(v, admin, bob, true); err != nil {
		t.Errorf("Valid whitelist add rejected: %v", err)
	}

	// Duplicate add and absent remove are idempotent successes.
	if err := CanSetWhitelist(v, admin, alice, true); err != nil {
		t.Errorf("Duplicate whitelist add rejected: %v", err)
	}
	if err := CanSetWhitelist(v, admin, bob, false); err != nil {
		t.Errorf("Absent whitelist remove rejected: %v", err)
	}

	if err := CanSetWhitelist(v, alice, bob, true); err != ErrUnauthorized {
		t.Errorf("Whitelist change by non-admin: got %v, want ErrUnauthorized", err)
	}
}

func TestCanChangeRole(t *testing.T) {
	v := newFakeView()
	v.add(root, 0, false, account.RoleDefaultAdmin)
	v.add(admin, 0, false, account.RoleAdmin)

	if err := CanChangeRole(v, root, account.RoleIssuer, alice); err != nil {
		t.Errorf("Role grant by root admin rejected: %v", err)
	}

	// No role other than the root administrative one may administer roles.
	if err := CanChangeRole(v, admin, account.RoleIssuer, alice); err != ErrUnauthorized {
		t.Errorf("Role grant by plain admin: got %v, want ErrUnauthorized", err)
	}
}

func TestCanPauseUnpause(t *testing.T) {
	v := newFakeView()
	v.add(admin, 0, false, account.RoleAdmin)

	if err := CanPause(v, admin); err != nil {
		t.Errorf("Valid pause rejected: %v", err)
	}
	if err := CanUnpause(v, admin); err != ErrAlreadyInState {
		t.Errorf("Unpause of running ledger: got %v, want ErrAlreadyInState", err)
	}

	v.paused = true
	if err := CanPause(v, admin); err != ErrAlreadyInState {
		t.Errorf("Duplicate pause: got %v, want ErrAlreadyInState", err)
	}
	if err := CanUnpause(v, admin); err != nil {
		t.Errorf("Valid unpause rejected: %v", err)
	}

	if err := CanPause(v, alice); err != ErrUnauthorized {
		t.Errorf("Pause by non-admin: got %v, want ErrUnauthorized", err)
	}
}
