package worker

// resumen_cron.go
// Background goroutine that once per day, at the configured hour, builds the
// daily operations summary and enqueues it as an email job. A Redis SETNX
// guard keeps multiple instances from sending duplicates.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const resumenTickInterval = time.Minute

// ResumenProvider builds the daily summary email content.
// Implemented by the report service; declared here to avoid a dependency
// cycle between the cron and the service layer.
type ResumenProvider interface {
	ResumenDiario(ctx context.Context) (asunto, cuerpo, pdfPath string, err error)
}

// ResumenCronConfig holds all dependencies for the daily summary goroutine.
type ResumenCronConfig struct {
	RDB          *redis.Client
	Dispatcher   *Dispatcher
	Provider     ResumenProvider
	Hora         int    // local hour (0-23) at which the summary goes out
	Destinatario string // empty disables the cron
}

// StartResumenCron launches a goroutine that ticks every minute and fires the
// daily summary once the configured hour is reached.
// It respects the context for graceful shutdown.
func StartResumenCron(ctx context.Context, cfg ResumenCronConfig) {
	if cfg.Destinatario == "" {
		log.Info().Msg("resumen_cron: no recipient configured, disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(resumenTickInterval)
		defer ticker.Stop()

		log.Info().Int("hora", cfg.Hora).Str("destinatario", cfg.Destinatario).Msg("resumen_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("resumen_cron: shutting down")
				return
			case <-ticker.C:
				tick(ctx, cfg)
			}
		}
	}()
}

func tick(ctx context.Context, cfg ResumenCronConfig) {
	now := time.Now()
	if now.Hour() != cfg.Hora {
		return
	}

	// One summary per calendar day, even with several instances running
	guardKey := "resumen:enviado:" + now.Format("2006-01-02")
	ok, err := cfg.RDB.SetNX(ctx, guardKey, 1, 48*time.Hour).Result()
	if err != nil {
		log.Error().Err(err).Msg("resumen_cron: guard check failed")
		return
	}
	if !ok {
		return // already sent today
	}

	asunto, cuerpo, pdfPath, err := cfg.Provider.ResumenDiario(ctx)
	if err != nil {
		log.Error().Err(err).Msg("resumen_cron: failed to build summary")
		// Release the guard so the next tick can retry
		cfg.RDB.Del(ctx, guardKey)
		return
	}

	job := EmailJobPayload{
		ToEmail: cfg.Destinatario,
		Subject: asunto,
		Body:    cuerpo,
		PDFPath: pdfPath,
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Error().Err(err).Msg("resumen_cron: failed to enqueue email")
		cfg.RDB.Del(ctx, guardKey)
		return
	}

	log.Info().Str("destinatario", cfg.Destinatario).Msg("resumen_cron: daily summary enqueued")
}
