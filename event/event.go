package event

import (
	"fmt"
	"math/big"
	"sort"
)

// Kind identifies the type of a ledger event.
type Kind string

// All event kinds emitted by the token ledger.
const (
	KindTransfer         Kind = "Transfer"
	KindMint             Kind = "Mint"
	KindBurn             Kind = "Burn"
	KindWhitelistUpdated Kind = "WhitelistUpdated"
	KindPaused           Kind = "Paused"
	KindUnpaused         Kind = "Unpaused"
	KindRoleGranted      Kind = "RoleGranted"
	KindRoleRevoked      Kind = "RoleRevoked"
	KindMetadataUpdated  Kind = "MetadataUpdated"
)

// Kinds lists every known event kind, in the order they are fetched.
var Kinds = []Kind{
	KindTransfer,
	KindMint,
	KindBurn,
	KindWhitelistUpdated,
	KindPaused,
	KindUnpaused,
	KindRoleGranted,
	KindRoleRevoked,
	KindMetadataUpdated,
}

// Payload is the kind-specific part of a ledger event.
// One implementation exists per event kind, carrying only its relevant fields.
type Payload interface {
	Kind() Kind
	// Subject returns the account the event is keyed by for deduplication.
	// Global events (pause switch, metadata) return an empty subject.
	Subject() string
}

// Transfer moves amount from one whitelisted account to another.
type Transfer struct {
	From   string
	To     string
	Amount *big.Int
}

// Mint issues new units to an account.
type Mint struct {
	To     string
	Amount *big.Int
	Reason string
}

// Burn destroys units held by an account.
type Burn struct {
	From   string
	Amount *big.Int
	Reason string
}

// WhitelistUpdated sets the compliance flag of an account.
type WhitelistUpdated struct {
	Account string
	Status  bool
}

// Paused flips the global compliance switch on.
type Paused struct {
	By string
}

// Unpaused flips the global compliance switch off.
type Unpaused struct {
	By string
}

// RoleGranted adds a role to an account.
type RoleGranted struct {
	Account string
	Role    string
}

// RoleRevoked removes a role from an account.
type RoleRevoked struct {
	Account string
	Role    string
}

// MetadataUpdated signals the asset metadata changed on the ledger.
type MetadataUpdated struct {
	By string
}

func (Transfer) Kind() Kind         { return KindTransfer }
func (Mint) Kind() Kind             { return KindMint }
func (Burn) Kind() Kind             { return KindBurn }
func (WhitelistUpdated) Kind() Kind { return KindWhitelistUpdated }
func (Paused) Kind() Kind           { return KindPaused }
func (Unpaused) Kind() Kind         { return KindUnpaused }
func (RoleGranted) Kind() Kind      { return KindRoleGranted }
func (RoleRevoked) Kind() Kind      { return KindRoleRevoked }
func (MetadataUpdated) Kind() Kind  { return KindMetadataUpdated }

func (p Transfer) Subject() string         { return p.From }
func (p Mint) Subject() string             { return p.To }
func (p Burn) Subject() string             { return p.From }
func (p WhitelistUpdated) Subject() string { return p.Account }
func (Paused) Subject() string             { return "" }
func (Unpaused) Subject() string           { return "" }
func (p RoleGranted) Subject() string      { return p.Account }
func (p RoleRevoked) Subject() string      { return p.Account }
func (MetadataUpdated) Subject() string    { return "" }

// Event is one immutable record from the ledger's event log.
type Event struct {
	TxHash     string
	BlockIndex uint64
	BlockTime  uint64
	// LogIndex is the ledger's intra-block emission order.
	LogIndex uint
	Payload  Payload
}

// Key is the deduplication identity of an event.
// A single transaction may emit events of several kinds, and the same kind
// for several accounts (batch whitelist), so all three parts are required.
type Key struct {
	TxHash  string
	Kind    Kind
	Account string
}

// Key returns the deduplication identity of the event.
func (e *Event) Key() Key {
	return Key{
		TxHash:  e.TxHash,
		Kind:    e.Payload.Kind(),
		Account: e.Payload.Subject(),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.TxHash, k.Kind, k.Account)
}

// Sort orders events by block index, then by intra-block emission order.
// Projection must apply effects in this order since later events depend on
// balances set by earlier ones.
func Sort(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockIndex != events[j].BlockIndex {
			return events[i].BlockIndex < events[j].BlockIndex
		}
		return events[i].LogIndex < events[j].LogIndex
	})
}
