package db

import (
	"bullion/account"
	"bullion/util"
	"database/sql"
	"strings"
)

// GetAllAccounts loads every mirrored account, used to seed the
// in-memory projection state on boot.
func (s *Store) GetAllAccounts() ([]*account.Account, error) {
	const query = "SELECT `address`, `balance`, `whitelisted`, `roles` FROM `account`"
	rows, err := s.wrappedQuery(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*account.Account{}

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, acc)
	}

	return result, nil
}

// GetAccount returns one mirrored account, or nil if never seen.
// Reads go through a small cache since the upstream API layer hits this
// for every whitelist check.
func (s *Store) GetAccount(address string) (*account.Account, error) {
	address = util.NormalizeAddress(address)

	if acc, ok := s.seenKeys.getAccount(address); ok {
		return acc.Copy(), nil
	}

	const query = "SELECT `address`, `balance`, `whitelisted`, `roles` FROM `account` WHERE `address` = ?"
	rows, err := s.wrappedQuery(query, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}

	acc, err := scanAccount(rows)
	if err != nil {
		return nil, err
	}

	s.seenKeys.putAccount(acc)
	return acc.Copy(), nil
}

// IsWhitelisted is the read the compliance-check endpoint consumes.
func (s *Store) IsWhitelisted(address string) (bool, error) {
	acc, err := s.GetAccount(address)
	if err != nil {
		return false, err
	}
	return acc != nil && acc.Whitelisted, nil
}

func scanAccount(rows *sql.Rows) (*account.Account, error) {
	var address, balanceStr, rolesStr string
	var whitelisted bool

	if err := rows.Scan(&address, &balanceStr, &whitelisted, &rolesStr); err != nil {
		return nil, err
	}

	balance, err := util.StrToBigInt(balanceStr)
	if err != nil {
		return nil, err
	}

	acc := account.New(address)
	acc.Balance = balance
	acc.Whitelisted = whitelisted
	for _, role := range strings.Split(rolesStr, ",") {
		if role == "" {
			continue
		}
		acc.Roles.Grant(account.Role(role))
	}

	return acc, nil
}

func upsertAccount(tx *sql.Tx, acc *account.Account, blockIndex uint64) error {
	roles := make([]string, 0, len(acc.Roles))
	for _, role := range acc.Roles.List() {
		roles = append(roles, string(role))
	}

	const query = "INSERT INTO `account` (`address`, `balance`, `whitelisted`, `roles`, `updated_block`) VALUES (?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `balance` = VALUES(`balance`), `whitelisted` = VALUES(`whitelisted`), `roles` = VALUES(`roles`), `updated_block` = VALUES(`updated_block`)"

	_, err := tx.Exec(query,
		util.NormalizeAddress(acc.Address),
		util.BigIntToStr(acc.Balance),
		acc.Whitelisted,
		strings.Join(roles, ","),
		blockIndex,
	)
	return err
}
