package op

import (
	"bullion/util"
	"math/big"
)

// Operation is one write intent in ledger wire form: the remote method
// name plus its positional arguments, ready for submission.
type Operation struct {
	Name string
	Args []interface{}
}

// Mint issues amount new units to an account, with an audit reason.
func Mint(to string, amount *big.Int, reason string) Operation {
	return Operation{
		Name: "mint",
		Args: []interface{}{util.NormalizeAddress(to), util.BigIntToStr(amount), reason},
	}
}

// BurnWithReason destroys amount units held by the caller.
func BurnWithReason(amount *big.Int, reason string) Operation {
	return Operation{
		Name: "burnWithReason",
		Args: []interface{}{util.BigIntToStr(amount), reason},
	}
}

// Transfer moves amount between two whitelisted accounts.
func Transfer(to string, amount *big.Int) Operation {
	return Operation{
		Name: "transfer",
		Args: []interface{}{util.NormalizeAddress(to), util.BigIntToStr(amount)},
	}
}

// AddToWhitelist puts one account on the compliance whitelist.
func AddToWhitelist(target string) Operation {
	return Operation{
		Name: "addToWhitelist",
		Args: []interface{}{util.NormalizeAddress(target)},
	}
}

// RemoveFromWhitelist takes one account off the compliance whitelist.
func RemoveFromWhitelist(target string) Operation {
	return Operation{
		Name: "removeFromWhitelist",
		Args: []interface{}{util.NormalizeAddress(target)},
	}
}

// BatchAddToWhitelist whitelists several accounts in one submission.
// Duplicates and zero addresses are skipped rather than rejected; that is
// the ledger's batch semantics, unlike the single-address form.
func BatchAddToWhitelist(targets []string) Operation {
	seen := make(map[string]struct{}, len(targets))
	args := make([]interface{}, 0, len(targets))

	for _, target := range targets {
		target = util.NormalizeAddress(target)
		if util.IsZeroAddress(target) {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		args = append(args, target)
	}

	return Operation{
		Name: "batchAddToWhitelist",
		Args: args,
	}
}

// GrantRole grants a role to an account.
func GrantRole(role string, target string) Operation {
	return Operation{
		Name: "grantRole",
		Args: []interface{}{role, util.NormalizeAddress(target)},
	}
}

// RevokeRole revokes a role from an account.
func RevokeRole(role string, target string) Operation {
	return Operation{
		Name: "revokeRole",
		Args: []interface{}{role, util.NormalizeAddress(target)},
	}
}

// Pause engages the global compliance switch.
func Pause() Operation {
	return Operation{Name: "pause"}
}

// Unpause releases the global compliance switch.
func Unpause() Operation {
	return Operation{Name: "unpause"}
}

// UpdateMetadata replaces the asset metadata document on the ledger.
func UpdateMetadata(commodityType, unit string, totalQuantity *big.Int, storageLocation, certificationHash string) Operation {
	return Operation{
		Name: "updateMetadata",
		Args: []interface{}{
			commodityType,
			unit,
			util.BigIntToStr(totalQuantity),
			storageLocation,
			certificationHash,
		},
	}
}
