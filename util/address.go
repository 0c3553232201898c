package util

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ZeroAddress is the mint-origin/burn-sink identifier on the ledger.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

const addressHexLen = 40

// NormalizeAddress returns the canonical lower-case form of an address.
// All map keys and db columns store addresses in this form.
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

// IsZeroAddress checks if addr is the ledger zero identifier.
func IsZeroAddress(addr string) bool {
	return NormalizeAddress(addr) == ZeroAddress
}

// AddressValid checks if address is a well-formed ledger address.
// Mixed-case addresses must additionally carry a valid checksum.
func AddressValid(addr string) bool {
	if len(addr) != addressHexLen+2 || !strings.HasPrefix(addr, "0x") {
		return false
	}

	hexPart := addr[2:]
	if _, err := hex.DecodeString(hexPart); err != nil {
		return false
	}

	// All-lower or all-upper forms carry no checksum.
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return true
	}

	return ChecksumAddress(addr) == addr
}

// ChecksumAddress returns the mixed-case checksum form of an address.
func ChecksumAddress(addr string) string {
	hexPart := strings.ToLower(strings.TrimPrefix(addr, "0x"))
	sum := Keccak256([]byte(hexPart))
	sumHex := hex.EncodeToString(sum)

	out := make([]byte, len(hexPart))
	for i := 0; i < len(hexPart); i++ {
		c := hexPart[i]
		if c >= 'a' && c <= 'f' && sumHex[i] >= '8' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}

	return "0x" + string(out)
}

// Keccak256 returns the legacy Keccak-256 hash of input data bytes.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
