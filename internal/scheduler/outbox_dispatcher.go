package scheduler

import (
	"context"
	"fmt"
	"time"

	"madfam_site_backend/internal/notification/outbox"
	"madfam_site_backend/platform/config"
	"madfam_site_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const (
	dispatchInterval  = 2 * time.Second
	dispatchBatchSize = 50
	dispatchWorkers   = 8
)

// OutboxDispatcher moves pending outbox rows onto the asynq queue at
// their run_at time. Claiming uses FOR UPDATE SKIP LOCKED so multiple
// dispatchers can run side by side.
type OutboxDispatcher struct {
	client *asynq.Client
	queue  string
	repo   *outbox.Repository
	log    *logger.Logger
}

func NewOutboxDispatcher(cfg config.SchedulerConfig, pool *pgxpool.Pool, log *logger.Logger) (*OutboxDispatcher, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &OutboxDispatcher{
		client: asynq.NewClient(opt),
		queue:  queue,
		repo:   outbox.New(pool),
		log:    log,
	}, nil
}

func (d *OutboxDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		records, err := d.repo.ClaimPending(ctx, dispatchBatchSize)
		if err != nil {
			d.log.Warn("outbox claim failed", "error", err)
			continue
		}
		if len(records) == 0 {
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(dispatchWorkers)
		for _, rec := range records {
			g.Go(func() error {
				d.dispatch(gctx, rec)
				return nil
			})
		}
		_ = g.Wait()
	}
}

// dispatch enqueues one record. Failures put the record back to pending
// so the next tick retries it.
func (d *OutboxDispatcher) dispatch(ctx context.Context, rec outbox.Record) {
	task, err := NewNotificationOutboxDueTask(NotificationOutboxDuePayload{
		OutboxID: rec.ID.String(),
	})
	if err != nil {
		msg := err.Error()
		_ = d.repo.MarkPending(ctx, rec.ID, &msg)
		return
	}

	_, err = d.client.EnqueueContext(ctx, task, asynq.ProcessAt(rec.RunAt), asynq.Queue(d.queue))
	if err != nil {
		msg := err.Error()
		_ = d.repo.MarkPending(ctx, rec.ID, &msg)
	}
}
