package worker

import (
	"context"
	"encoding/json"
	"time"

	"tiendapos/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueBackup = "jobs:backup"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// BackupJobPayload carries the parameters of one snapshot export.
type BackupJobPayload struct {
	RequestedBy string `json:"requested_by"`
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. With no Redis client configured the dispatcher is nil and
// callers fall back to synchronous execution.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	if rdb == nil {
		return nil
	}
	return &Dispatcher{rdb: rdb}
}

// EnqueueBackup pushes a snapshot export job.
func (d *Dispatcher) EnqueueBackup(ctx context.Context, payload BackupJobPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: "backup", Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueBackup, encoded).Err()
}

// BackupWorker consumes export jobs and writes snapshot files.
type BackupWorker struct {
	backups   service.BackupService
	backupDir string
}

func NewBackupWorker(backups service.BackupService, backupDir string) *BackupWorker {
	return &BackupWorker{backups: backups, backupDir: backupDir}
}

func (w *BackupWorker) handle(ctx context.Context, job Job) {
	var payload BackupJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal backup job")
		return
	}
	path, err := w.backups.WriteSnapshotFile(ctx, w.backupDir)
	if err != nil {
		log.Error().Err(err).Msg("backup export failed")
		return
	}
	log.Info().Str("path", path).Str("requested_by", payload.RequestedBy).Msg("backup snapshot written")
}

// StartWorkerPool launches numWorkers goroutines consuming the backup queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, w *BackupWorker, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, w, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, w *BackupWorker, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueBackup).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			var job Job
			if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
				log.Error().Str("queue", result[0]).Err(err).Msg("failed to unmarshal job")
				continue
			}
			w.handle(ctx, job)
		}
	}
}
