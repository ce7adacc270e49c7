package worker

// recalculo_worker.go
// Processes snapshot recalculation jobs from QueueRecalculo.
// Every write to movimientos or saldos_iniciales enqueues one of these so the
// cached stock and cuentas corrientes snapshots stay warm for the UI.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// RecalculoJobPayload is the job envelope sent to QueueRecalculo.
type RecalculoJobPayload struct {
	Motivo       string    `json:"motivo"` // "movimiento", "saldo_inicial", "manual"
	SolicitadoEn time.Time `json:"solicitado_en"`
}

// SnapshotRefresher recomputes and caches the derived report state.
// Implemented by the report service; declared here to avoid a dependency
// cycle between the worker pool and the service layer.
type SnapshotRefresher interface {
	RefrescarSnapshots(ctx context.Context) error
}

// RecalculoWorker processes recalculation jobs from QueueRecalculo.
type RecalculoWorker struct {
	snapshots SnapshotRefresher
}

func NewRecalculoWorker(snapshots SnapshotRefresher) *RecalculoWorker {
	return &RecalculoWorker{snapshots: snapshots}
}

// Process replays the full movement history and refreshes the cached
// stock and cuentas corrientes snapshots.
func (w *RecalculoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload RecalculoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recalculo_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}

	start := time.Now()
	if err := w.snapshots.RefrescarSnapshots(ctx); err != nil {
		log.Error().Err(err).Str("motivo", payload.Motivo).Msg("recalculo_worker: refresh failed")
		return err
	}

	log.Info().
		Str("motivo", payload.Motivo).
		Dur("elapsed", time.Since(start)).
		Msg("recalculo_worker: snapshots refreshed")
	return nil
}
