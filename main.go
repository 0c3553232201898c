package main

import (
	"bullion/config"
	"bullion/db"
	"bullion/log"
	"bullion/mail"
	"bullion/pending"
	"bullion/projection"
	"bullion/rpc"
	"bullion/tasks"
	"flag"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
)

var enableMail bool

func init() {
	flag.BoolVar(&enableMail, "mail", false, "If mail alert is enabled")
}

func main() {
	flag.Parse()

	log.Init()
	config.Load(true)
	mail.Init(enableMail)

	defer mail.AlertIfErr()

	store, err := db.Open(config.GetDbConnStr())
	if err != nil {
		panic(err)
	}

	client := rpc.NewClient(config.GetRPCs())
	state := projection.NewState()
	receipts := pending.NewReceipts()

	_, stop := tasks.Run(client, store, state, receipts)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Printf("Shutting down...")
	stop()
}
