package tasks

import (
	"bullion/config"
	"bullion/db"
	"bullion/log"
	"bullion/mail"
	"bullion/pending"
	"bullion/projection"
	"bullion/rpc"
)

// Run wires and starts the background tasks: node height tracing and the
// event synchronizer. The returned stop function halts everything in
// order, synchronizer first so no window is cut mid-apply.
func Run(client *rpc.Client, store *db.Store, state *projection.State, receipts *pending.Receipts) (sync *Synchronizer, stop func()) {
	log.Printf("Probing ledger nodes...")
	bestHeight := client.RefreshServers()

	log.Printf("Current params for event synchronization:\n")
	log.Printf("db cursor = %d\n", store.GetCursor())
	log.Printf("rpc best height = %d\n", bestHeight)

	heightTracerStop := make(chan struct{})
	go func() {
		defer mail.AlertIfErr()
		client.TraceBestHeight(heightTracerStop)
	}()

	sync = NewSynchronizer(client, store, state, receipts, config.GetSync(), config.GetGoroutines())
	sync.Start()

	stop = func() {
		sync.Stop()
		close(heightTracerStop)
	}

	return sync, stop
}
