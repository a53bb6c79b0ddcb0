package syncqueue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"order_ledger/internal/models"
)

// Submitter sends a batch of drafts to the server's batch reconciliation
// endpoint and returns its per-draft verdicts.
type Submitter interface {
	Submit(ctx context.Context, drafts []models.Draft) (*models.SyncResponse, error)
}

// Queue is the client-side durable queue of offline drafts. Drain is woken by
// connectivity-restored signals and is coalesced: a trigger while a drain is
// in flight is a no-op, so a flapping connection cannot double-submit.
type Queue struct {
	store      *Store
	submitter  Submitter
	maxRetries int

	draining sync.Mutex
}

// DrainResult reports what one drain pass did.
type DrainResult struct {
	Coalesced bool
	Submitted int
	Confirmed int
	Retried   int
	Abandoned int
}

func New(store *Store, submitter Submitter, maxRetries int) *Queue {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Queue{store: store, submitter: submitter, maxRetries: maxRetries}
}

// Enqueue stores a draft composed while offline and returns its stable local
// id. The id is what prevents duplicate submission across drain passes.
func (q *Queue) Enqueue(draft models.Draft) (string, error) {
	entry := &Entry{
		LocalID:   uuid.NewString(),
		Draft:     draft,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	if err := q.store.Insert(entry); err != nil {
		return "", fmt.Errorf("failed to enqueue draft: %w", err)
	}
	return entry.LocalID, nil
}

// Drain submits all pending drafts. Confirmed entries are removed; rejected
// ones are retried up to the bound, then parked as failed for a human.
// Invoking Drain while another drain runs returns immediately with
// Coalesced set.
func (q *Queue) Drain(ctx context.Context) (*DrainResult, error) {
	if !q.draining.TryLock() {
		return &DrainResult{Coalesced: true}, nil
	}
	defer q.draining.Unlock()

	entries, err := q.store.ListPending()
	if err != nil {
		return nil, fmt.Errorf("failed to load pending drafts: %w", err)
	}
	if len(entries) == 0 {
		return &DrainResult{}, nil
	}

	// Suppress duplicates within this drain: each local id is sent once.
	inFlight := make(map[string]Entry, len(entries))
	drafts := make([]models.Draft, 0, len(entries))
	for _, e := range entries {
		if _, seen := inFlight[e.LocalID]; seen {
			continue
		}
		inFlight[e.LocalID] = e
		if err := q.store.MarkProcessing(e.LocalID); err != nil {
			return nil, err
		}
		drafts = append(drafts, e.Draft)
	}

	resp, err := q.submitter.Submit(ctx, drafts)
	if err != nil {
		// Transport failure: nothing reached the server's verdict stage, so
		// leave retry counts alone and let the next connectivity signal retry.
		return nil, fmt.Errorf("sync submission failed: %w", err)
	}

	result := &DrainResult{Submitted: len(drafts)}
	rejected := make(map[string]string, len(resp.Failed))
	for _, f := range resp.Failed {
		rejected[f.Order.LocalID] = f.Error
	}

	for localID, entry := range inFlight {
		if reason, ok := rejected[localID]; ok {
			log.Printf("Warning: draft %s rejected by server: %s", localID, reason)
			if err := q.store.RecordFailure(localID, q.maxRetries); err != nil {
				return nil, err
			}
			if entry.RetryCount+1 >= q.maxRetries {
				result.Abandoned++
			} else {
				result.Retried++
			}
			continue
		}
		if err := q.store.Delete(localID); err != nil {
			return nil, err
		}
		result.Confirmed++
	}
	return result, nil
}

// Failed lists drafts that exhausted their retries and need human attention.
func (q *Queue) Failed() ([]Entry, error) {
	return q.store.ListFailed()
}
