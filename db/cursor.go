package db

import (
	"bullion/util"
	"database/sql"
	"math/big"
)

// Counter is the single-row bookkeeping record of the mirror: the
// ingestion cursor plus the projected global flags that have no account
// row to live on.
type Counter struct {
	ID int
	// Cursor is the highest block fully ingested; -1 means cold store.
	Cursor      int64
	Paused      bool
	TotalSupply *big.Int
}

func (s *Store) initCounterInstance() Counter {
	c := Counter{
		ID:          1,
		Cursor:      -1,
		Paused:      false,
		TotalSupply: new(big.Int),
	}

	const query = "INSERT INTO `counter` (`id`, `cursor`, `paused`, `total_supply`) VALUES (?, ?, ?, ?)"

	_, err := s.db.Exec(query,
		c.ID,
		c.Cursor,
		c.Paused,
		util.BigIntToStr(c.TotalSupply),
	)
	if err != nil {
		panic(err)
	}

	return c
}

func (s *Store) getCounterInstance() Counter {
	const query = "SELECT `id`, `cursor`, `paused`, `total_supply` FROM `counter` WHERE `id` = 1 LIMIT 1"

	var counter Counter
	totalSupplyStr := ""

	err := s.db.QueryRow(query).Scan(
		&counter.ID,
		&counter.Cursor,
		&counter.Paused,
		&totalSupplyStr,
	)
	switch err {
	case sql.ErrNoRows:
		return s.initCounterInstance()
	case nil:
		supply, err := util.StrToBigInt(totalSupplyStr)
		if err != nil {
			panic(err)
		}
		counter.TotalSupply = supply
		return counter
	default:
		s.reconnect()
		return s.getCounterInstance()
	}
}

// GetCursor returns the highest fully ingested block, or -1 for a cold
// store that has never completed a window.
func (s *Store) GetCursor() int64 {
	counter := s.getCounterInstance()
	return counter.Cursor
}

// GetCounter returns the full bookkeeping record.
func (s *Store) GetCounter() Counter {
	return s.getCounterInstance()
}

// SetCursor moves the cursor without touching event history. Used once
// at cold start to pin the ingestion origin (head or genesis).
func (s *Store) SetCursor(cursor int64) error {
	s.getCounterInstance()

	const query = "UPDATE `counter` SET `cursor` = ? WHERE `id` = 1 AND `cursor` < ?"
	_, err := s.db.Exec(query, cursor, cursor)
	return err
}

func updateCounter(tx *sql.Tx, cursor int64, paused bool, totalSupply *big.Int) error {
	const query = "UPDATE `counter` SET `cursor` = ?, `paused` = ?, `total_supply` = ? WHERE `id` = 1"
	_, err := tx.Exec(query, cursor, paused, util.BigIntToStr(totalSupply))
	return err
}
