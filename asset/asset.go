package asset

import "math/big"

// Metadata describes the physical commodity backing the token.
// Replicated verbatim from the ledger, never computed locally.
type Metadata struct {
	CommodityType     string
	Unit              string
	TotalQuantity     *big.Int
	StorageLocation   string
	CertificationHash string
	CreatedAt         uint64
	UpdatedAt         uint64
}
