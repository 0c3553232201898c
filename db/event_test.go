package db

import (
	"bullion/event"
	"math/big"
	"strings"
	"testing"
)

func TestGenerateInsertCmdForEventsEscapes(t *testing.T) {
	// Kind, role and reason strings come straight from node responses;
	// a quote in any of them must not terminate the SQL literal.
	events := []*event.Event{
		{
			TxHash:     "0x01",
			BlockIndex: 1,
			Payload:    event.Mint{To: "0xaa", Amount: big.NewInt(5), Reason: `vault said 'ok'`},
		},
		{
			TxHash:     "0x02",
			BlockIndex: 2,
			Payload:    event.RoleGranted{Account: "0xbb", Role: `ISS'UER`},
		},
	}

	cmd := generateInsertCmdForEvents(events)

	if !strings.Contains(cmd, `vault said \'ok\'`) {
		t.Errorf("Reason not escaped:\n%s", cmd)
	}
	if !strings.Contains(cmd, `ISS\'UER`) {
		t.Errorf("Role not escaped:\n%s", cmd)
	}
	if strings.Contains(cmd, `'ISS'`) {
		t.Errorf("Raw quote closed the role literal:\n%s", cmd)
	}
}

func TestGenerateInsertCmdForEventsEmpty(t *testing.T) {
	if cmd := generateInsertCmdForEvents(nil); cmd != "" {
		t.Errorf("Empty window produced a command: %s", cmd)
	}
}

func TestSeenKeyCache(t *testing.T) {
	c := newSeenKeyCache()

	key := event.Key{TxHash: "0x01", Kind: event.KindMint, Account: "0xaa"}
	if c.hasEvent(key) {
		t.Error("Fresh cache claims to have seen a key")
	}

	c.addEvent(key)
	if !c.hasEvent(key) {
		t.Error("Recorded key not found")
	}

	other := event.Key{TxHash: "0x01", Kind: event.KindTransfer, Account: "0xaa"}
	if c.hasEvent(other) {
		t.Error("Different kind matched a recorded key")
	}
}
