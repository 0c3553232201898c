package util

import (
	"testing"
)

func TestVerifyAddress(t *testing.T) {
	if !AddressValid("0x52908400098527886e0f7030069857d2e4169ee7") {
		t.Error("Address is valid but function [AddressValid] returns invalid result")
	}

	if AddressValid("0x52908400098527886e0f7030069857d2e4169e") {
		t.Error("Address is too short but function [AddressValid] returns valid result")
	}

	if AddressValid("52908400098527886e0f7030069857d2e4169ee7") {
		t.Error("Address lacks prefix but function [AddressValid] returns valid result")
	}

	if AddressValid("0x5290840009852788ZZ0f7030069857d2e4169ee7") {
		t.Error("Address is not hex but function [AddressValid] returns valid result")
	}
}

func TestChecksumAddress(t *testing.T) {
	// Known checksum vectors.
	cases := []string{
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		"0xde709f2102306220921060314715629080e2fb77",
		"0x27b1fdb04752bbc536007a920d24acb045561c26",
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	}

	for _, addr := range cases {
		if ChecksumAddress(addr) != addr {
			t.Errorf("Checksum conversion failed for %s, got %s", addr, ChecksumAddress(addr))
		}

		if !AddressValid(addr) {
			t.Errorf("Checksummed address %s reported invalid", addr)
		}
	}
}

func TestChecksumMismatch(t *testing.T) {
	// Valid hex, broken checksum casing.
	if AddressValid("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD") {
		t.Error("Address with wrong checksum casing reported valid")
	}
}

func TestNormalizeAddress(t *testing.T) {
	mixed := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	lower := "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

	if NormalizeAddress(mixed) != lower {
		t.Error("Address normalization failed")
	}

	if !IsZeroAddress("0x0000000000000000000000000000000000000000") {
		t.Error("Zero address not recognized")
	}

	if IsZeroAddress(lower) {
		t.Error("Non-zero address recognized as zero")
	}
}
