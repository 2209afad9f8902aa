// Command shopper is a terminal storefront client. It keeps its session in a
// local sqlite file between runs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/session"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	storage, err := session.OpenSQLiteStorage(cfg.SessionPath)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer storage.Close()

	cache := session.New(storage)
	api := client.New(cfg.APIURL, cache, client.WithTimeout(cfg.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sh := newShopper(cache, api, cfg.Lang, os.Stdout)
	err = sh.run(ctx, os.Args[1:])
	sh.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
