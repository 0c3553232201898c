package db

import (
	"bullion/log"
	"database/sql"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Store is the durable side of the projection mirror: accounts, event
// history, the asset metadata snapshot and the ingestion cursor, all in
// one mysql database.
type Store struct {
	db      *sql.DB
	connStr string
	locker  uint32

	seenKeys seenKeyCache
}

// Open connects to mysql with the given connection string and prepares
// the schema.
func Open(connStr string) (*Store, error) {
	conn, err := sql.Open("mysql", connStr)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:       conn,
		connStr:  connStr,
		seenKeys: newSeenKeyCache(),
	}

	if err := s.ensureSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) reconnect() {
	if !atomic.CompareAndSwapUint32(&s.locker, 0, 1) {
		for {
			// Lock was held by others, wait till lock released.
			time.Sleep(20 * time.Millisecond)
			// Lock was released.
			if atomic.LoadUint32(&s.locker) != 1 {
				return
			}
		}
	}

	defer atomic.StoreUint32(&s.locker, 0)

	for {
		log.Printf("Try Reconnecting to database...")
		s.db, _ = sql.Open("mysql", s.connStr)

		if err := s.db.Ping(); err == nil {
			return
		}

		log.Printf("Wait for few seconds to reconnect again")
		time.Sleep(5 * time.Second)
	}
}

func (s *Store) wrappedQuery(query string, args ...interface{}) (*sql.Rows, error) {
	for {
		rows, err := s.db.Query(query, args...)
		if err == nil {
			return rows, err
		}

		if !connErr(err) {
			return nil, err
		}

		s.reconnect()
	}
}

func (s *Store) transact(txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		if !connErr(err) {
			return err
		}

		s.reconnect()
		return s.transact(txFunc)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = txFunc(tx)
	if err == nil || !connErr(err) {
		return err
	}

	tx.Rollback()
	s.reconnect()
	return s.transact(txFunc)
}

func connErr(err error) bool {
	if err == nil {
		return false
	}

	log.Println(err)

	if err == mysql.ErrInvalidConn ||
		strings.HasSuffix(err.Error(), "operation timed out") ||
		strings.HasSuffix(err.Error(), "Server shutdown in progress") ||
		strings.HasPrefix(err.Error(), "Error 1290") {
		return true
	}

	return false
}
