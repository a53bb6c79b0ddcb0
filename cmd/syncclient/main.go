package main

import (
	"context"
	"log"

	"order_ledger/internal/config"
	"order_ledger/internal/syncqueue"
)

// syncclient drains the local offline-draft queue against the server's batch
// sync endpoint. Run it when connectivity comes back.
func main() {
	cfg := config.Load()

	store, err := syncqueue.OpenStore(cfg.SyncQueuePath)
	if err != nil {
		log.Fatal("Failed to open sync queue store:", err)
	}
	defer store.Close()

	queue := syncqueue.New(store, syncqueue.NewHTTPSubmitter(cfg.SyncEndpoint), cfg.SyncMaxRetries)

	result, err := queue.Drain(context.Background())
	if err != nil {
		log.Fatal("Sync failed:", err)
	}
	log.Printf("Sync complete: %d submitted, %d confirmed, %d retried, %d abandoned",
		result.Submitted, result.Confirmed, result.Retried, result.Abandoned)

	failed, err := queue.Failed()
	if err != nil {
		log.Fatal("Failed to list failed drafts:", err)
	}
	for _, entry := range failed {
		log.Printf("Warning: draft %s exhausted its retries and needs review", entry.LocalID)
	}
}
