package account

import "math/big"

// Role is a ledger access-control role identifier.
type Role string

// Roles defined by the token ledger.
const (
	RoleAdmin        Role = "ADMIN"
	RoleIssuer       Role = "ISSUER"
	RoleDefaultAdmin Role = "DEFAULT_ADMIN"
)

// Account mirrors one ledger account.
type Account struct {
	Address     string
	Balance     *big.Int
	Whitelisted bool
	Roles       RoleSet
}

// New returns an account with a zero balance and no roles.
func New(address string) *Account {
	return &Account{
		Address: address,
		Balance: new(big.Int),
		Roles:   make(RoleSet),
	}
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role Role) bool {
	if a == nil {
		return false
	}
	return a.Roles.Has(role)
}

// Copy returns an independent copy of the account.
func (a *Account) Copy() *Account {
	c := &Account{
		Address:     a.Address,
		Balance:     new(big.Int).Set(a.Balance),
		Whitelisted: a.Whitelisted,
		Roles:       make(RoleSet, len(a.Roles)),
	}
	for role := range a.Roles {
		c.Roles[role] = struct{}{}
	}
	return c
}

// RoleSet is the set of roles held by an account.
type RoleSet map[Role]struct{}

// Has reports whether the set contains role.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Grant adds role to the set.
func (s RoleSet) Grant(role Role) {
	s[role] = struct{}{}
}

// Revoke removes role from the set.
func (s RoleSet) Revoke(role Role) {
	delete(s, role)
}

// List returns the roles as a slice, for persistence.
func (s RoleSet) List() []Role {
	roles := make([]Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	return roles
}
