package db

import (
	"bullion/account"
	"bullion/event"

	lru "github.com/hashicorp/golang-lru"
)

const (
	eventKeyCacheSize = 50000
	accountCacheSize  = 10000
)

// seenKeyCache keeps hot lookups out of mysql: dedup keys of recently
// recorded events (steady-state ingestion re-checks every event in a
// replayed window) and account rows the API layer reads repeatedly.
type seenKeyCache struct {
	events   *lru.Cache
	accounts *lru.Cache
}

func newSeenKeyCache() seenKeyCache {
	events, err := lru.New(eventKeyCacheSize)
	if err != nil {
		panic(err)
	}

	accounts, err := lru.New(accountCacheSize)
	if err != nil {
		panic(err)
	}

	return seenKeyCache{
		events:   events,
		accounts: accounts,
	}
}

func (c seenKeyCache) hasEvent(key event.Key) bool {
	return c.events.Contains(key)
}

func (c seenKeyCache) addEvent(key event.Key) {
	c.events.Add(key, struct{}{})
}

func (c seenKeyCache) getAccount(address string) (*account.Account, bool) {
	v, ok := c.accounts.Get(address)
	if !ok {
		return nil, false
	}
	return v.(*account.Account), true
}

func (c seenKeyCache) putAccount(acc *account.Account) {
	c.accounts.Add(acc.Address, acc)
}

func (c seenKeyCache) dropAccount(address string) {
	c.accounts.Remove(address)
}
