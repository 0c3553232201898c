package op

import (
	"bullion/util"
	"math/big"
	"testing"
)

func TestMintArgs(t *testing.T) {
	o := Mint("0xAB00000000000000000000000000000000000001", big.NewInt(500), "vault intake 42")

	if o.Name != "mint" {
		t.Errorf("Name = %s", o.Name)
	}
	if len(o.Args) != 3 {
		t.Fatalf("Args = %v", o.Args)
	}
	if o.Args[0] != "0xab00000000000000000000000000000000000001" {
		t.Errorf("Target not normalized: %v", o.Args[0])
	}
	if o.Args[1] != "500" {
		t.Errorf("Amount = %v, want decimal string", o.Args[1])
	}
	if o.Args[2] != "vault intake 42" {
		t.Errorf("Reason = %v", o.Args[2])
	}
}

func TestTransferNormalizesTarget(t *testing.T) {
	o := Transfer("0xAB00000000000000000000000000000000000002", big.NewInt(1))
	if o.Args[0] != "0xab00000000000000000000000000000000000002" {
		t.Errorf("Target not normalized: %v", o.Args[0])
	}
}

func TestBatchAddToWhitelistSkipsDuplicatesAndZero(t *testing.T) {
	o := BatchAddToWhitelist([]string{
		"0xAB00000000000000000000000000000000000001",
		"0xab00000000000000000000000000000000000001", // same address, different case
		util.ZeroAddress,
		"0xab00000000000000000000000000000000000002",
	})

	if o.Name != "batchAddToWhitelist" {
		t.Errorf("Name = %s", o.Name)
	}
	if len(o.Args) != 2 {
		t.Fatalf("Args = %v, want the two distinct non-zero addresses", o.Args)
	}
	if o.Args[0] != "0xab00000000000000000000000000000000000001" ||
		o.Args[1] != "0xab00000000000000000000000000000000000002" {
		t.Errorf("Args = %v", o.Args)
	}
}

func TestBatchAddToWhitelistEmpty(t *testing.T) {
	o := BatchAddToWhitelist([]string{util.ZeroAddress})
	if len(o.Args) != 0 {
		t.Errorf("Args = %v, want none", o.Args)
	}
}

func TestPauseHasNoArgs(t *testing.T) {
	if o := Pause(); o.Name != "pause" || len(o.Args) != 0 {
		t.Errorf("Pause() = %+v", o)
	}
	if o := Unpause(); o.Name != "unpause" || len(o.Args) != 0 {
		t.Errorf("Unpause() = %+v", o)
	}
}

func TestBurnWithReasonArgs(t *testing.T) {
	o := BurnWithReason(big.NewInt(250), "vault release 7")
	if o.Name != "burnWithReason" {
		t.Errorf("Name = %s", o.Name)
	}
	if len(o.Args) != 2 || o.Args[0] != "250" || o.Args[1] != "vault release 7" {
		t.Errorf("Args = %v", o.Args)
	}
}
