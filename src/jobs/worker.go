package jobs

import (
	"context"
	"fmt"
	"log"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/services/forms"

	"github.com/hibiken/asynq"
)

// RunWorker starts the background delivery worker. Blocks until the
// server stops; callers run it in a goroutine.
func RunWorker() {
	if config.RedisURI == "" {
		log.Println("⚠️ Redis not configured. Delivery worker will not start.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: config.RedisURI},
		asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{"default": 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(forms.TypeDeliverLead, HandleDeliverLeadTask)

	log.Println("✅ Delivery worker started")
	if err := srv.Run(mux); err != nil {
		log.Printf("❌ Delivery worker stopped: %v", err)
	}
}

// HandleDeliverLeadTask retries CRM delivery for one form. Returning an
// error keeps the task on the queue for asynq's backoff retry; a lead
// that comes back failed is terminal and must not loop.
func HandleDeliverLeadTask(ctx context.Context, t *asynq.Task) error {
	formID, err := forms.ParseDeliverLeadTask(t)
	if err != nil {
		return fmt.Errorf("malformed delivery task: %v: %w", err, asynq.SkipRetry)
	}

	outcome, err := forms.DeliverLead(ctx, formID)
	if err != nil {
		if err == forms.ErrFormNotFound {
			return fmt.Errorf("form %s gone: %w", formID, asynq.SkipRetry)
		}
		return err
	}

	switch outcome.Status {
	case models.CrmStatusSent:
		log.Printf("✅ Retry delivered lead %s", formID)
		return nil
	case models.CrmStatusQueued:
		return fmt.Errorf("lead %s still undeliverable, retrying later", formID)
	default:
		log.Printf("❌ Retry for lead %s ended failed: %s", formID, outcome.Error)
		return nil
	}
}
