package db

import (
	"bullion/event"
	"bullion/util"
	"database/sql"
	"fmt"
	"strings"
)

// GetAppliedKeys returns dedup keys of all recorded events above the
// given block. After a clean shutdown this is empty; after a crash it
// covers the partially persisted window so replay skips those events.
func (s *Store) GetAppliedKeys(afterBlock int64) (map[event.Key]uint64, error) {
	const query = "SELECT `tx_hash`, `kind`, `account`, `block_index` FROM `ledger_event` WHERE `block_index` > ?"
	rows, err := s.wrappedQuery(query, afterBlock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[event.Key]uint64)

	for rows.Next() {
		var txHash, kind, acct string
		var blockIndex uint64
		if err := rows.Scan(&txHash, &kind, &acct, &blockIndex); err != nil {
			return nil, err
		}
		keys[event.Key{TxHash: txHash, Kind: event.Kind(kind), Account: acct}] = blockIndex
	}

	return keys, nil
}

func generateInsertCmdForEvents(events []*event.Event) string {
	if len(events) == 0 {
		return ""
	}

	var strBuilder strings.Builder
	strBuilder.WriteString("INSERT IGNORE INTO `ledger_event` (`tx_hash`, `kind`, `account`, `block_index`, `block_time`, `log_index`, `from_addr`, `to_addr`, `amount`, `reason`, `role`, `status`) VALUES ")

	// Node responses are untrusted input; every string column is escaped.
	for _, e := range events {
		row := eventRow(e)
		strBuilder.WriteString(fmt.Sprintf("('%s', '%s', '%s', %d, %d, %d, '%s', '%s', '%s', '%s', '%s', %d),",
			escape(row.txHash), escape(row.kind), escape(row.account), e.BlockIndex, e.BlockTime, e.LogIndex,
			escape(row.from), escape(row.to), escape(row.amount), escape(row.reason), escape(row.role), row.status))
	}

	return strings.TrimSuffix(strBuilder.String(), ",")
}

type rawEventRow struct {
	txHash  string
	kind    string
	account string
	from    string
	to      string
	amount  string
	reason  string
	role    string
	status  int
}

func eventRow(e *event.Event) rawEventRow {
	key := e.Key()
	row := rawEventRow{
		txHash:  key.TxHash,
		kind:    string(key.Kind),
		account: key.Account,
		amount:  "0",
	}

	switch p := e.Payload.(type) {
	case event.Transfer:
		row.from = p.From
		row.to = p.To
		row.amount = util.BigIntToStr(p.Amount)
	case event.Mint:
		row.to = p.To
		row.amount = util.BigIntToStr(p.Amount)
		row.reason = p.Reason
	case event.Burn:
		row.from = p.From
		row.amount = util.BigIntToStr(p.Amount)
		row.reason = p.Reason
	case event.WhitelistUpdated:
		if p.Status {
			row.status = 1
		}
	case event.RoleGranted:
		row.role = p.Role
	case event.RoleRevoked:
		row.role = p.Role
	}

	return row
}

func escape(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	return strings.Replace(s, `'`, `\'`, -1)
}

// HistoryRecord is one row of the audit/query history view.
type HistoryRecord struct {
	ID         uint64
	TxHash     string
	Kind       event.Kind
	Account    string
	BlockIndex uint64
	BlockTime  uint64
	LogIndex   uint
	From       string
	To         string
	Amount     string
	Reason     string
	Role       string
	Status     bool
}

// GetHistory returns event history touching the given address, newest
// first, for the transaction-listing endpoint. An empty address returns
// the global history.
func (s *Store) GetHistory(address string, offset, limit uint) ([]*HistoryRecord, error) {
	address = util.NormalizeAddress(address)

	query := "SELECT `id`, `tx_hash`, `kind`, `account`, `block_index`, `block_time`, `log_index`, `from_addr`, `to_addr`, `amount`, `reason`, `role`, `status` FROM `ledger_event`"
	args := []interface{}{}

	if address != "" {
		query += " WHERE `account` = ? OR `from_addr` = ? OR `to_addr` = ?"
		args = append(args, address, address, address)
	}

	query += " ORDER BY `block_index` DESC, `log_index` DESC LIMIT ?, ?"
	args = append(args, offset, limit)

	rows, err := s.wrappedQuery(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*HistoryRecord{}

	for rows.Next() {
		rec, err := scanHistoryRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	return result, nil
}

func scanHistoryRecord(rows *sql.Rows) (*HistoryRecord, error) {
	var rec HistoryRecord
	var kind string

	err := rows.Scan(
		&rec.ID,
		&rec.TxHash,
		&kind,
		&rec.Account,
		&rec.BlockIndex,
		&rec.BlockTime,
		&rec.LogIndex,
		&rec.From,
		&rec.To,
		&rec.Amount,
		&rec.Reason,
		&rec.Role,
		&rec.Status,
	)
	if err != nil {
		return nil, err
	}

	rec.Kind = event.Kind(kind)
	return &rec, nil
}
