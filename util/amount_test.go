package util

import (
	"testing"
)

func TestStrToBigInt(t *testing.T) {
	v, err := StrToBigInt("340282366920938463463374607431768211456")
	if err != nil {
		t.Fatalf("Failed to parse large amount: %v", err)
	}
	if BigIntToStr(v) != "340282366920938463463374607431768211456" {
		t.Error("Amount round trip failed")
	}

	v, err = StrToBigInt("")
	if err != nil || v.Sign() != 0 {
		t.Error("Empty amount string must parse as zero")
	}

	if _, err := StrToBigInt("-5"); err == nil {
		t.Error("Negative amount string must be rejected")
	}

	if _, err := StrToBigInt("12x4"); err == nil {
		t.Error("Malformed amount string must be rejected")
	}
}

func TestBigIntToStrNil(t *testing.T) {
	if BigIntToStr(nil) != "0" {
		t.Error("Nil amount must format as zero")
	}
}
