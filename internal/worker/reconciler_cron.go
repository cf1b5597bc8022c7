package worker

// reconciler_cron.go
// Background goroutine that periodically cross-checks recent completed ventas
// against the stock movement ledger. Every completed venta must have exactly
// one salida movement per line item; a mismatch means the audit trail is
// broken and needs manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	reconcilerTickInterval = 60 * time.Second
	reconcilerLookback     = 15 * time.Minute
	reconcilerBatchSize    = 100

	// AlertasReconciliacion is the Redis list where discrepancies are pushed.
	AlertasReconciliacion = "alertas:reconciliacion"
)

// ReconciliacionAlerta describes one venta whose movement count doesn't match
// its item count.
type ReconciliacionAlerta struct {
	VentaID        string `json:"venta_id"`
	NumeroTicket   int    `json:"numero_ticket"`
	ItemsEsperados int    `json:"items_esperados"`
	Movimientos    int64  `json:"movimientos"`
	DetectadoEn    string `json:"detectado_en"` // ISO 8601
}

// ReconcilerConfig holds the dependencies for the reconciliation goroutine.
type ReconcilerConfig struct {
	VentaRepo      repository.VentaRepository
	MovimientoRepo repository.MovimientoStockRepository
	RDB            *redis.Client
}

// StartReconcilerCron launches a background goroutine that ticks every 60s
// and verifies the movement ledger for recently completed ventas. It respects
// the context for graceful shutdown.
func StartReconcilerCron(ctx context.Context, cfg ReconcilerConfig) {
	go func() {
		ticker := time.NewTicker(reconcilerTickInterval)
		defer ticker.Stop()

		log.Info().Msg("reconciler_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconciler_cron: shutting down")
				return
			case <-ticker.C:
				reconcile(ctx, cfg)
			}
		}
	}()
}

func reconcile(ctx context.Context, cfg ReconcilerConfig) {
	desde := time.Now().Add(-reconcilerLookback)
	ventas, err := cfg.VentaRepo.ListRecientesCompletadas(ctx, desde, reconcilerBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("reconciler_cron: failed to query recent ventas")
		return
	}

	for i := range ventas {
		v := &ventas[i]

		count, err := cfg.MovimientoRepo.CountByReferencia(ctx, v.ID)
		if err != nil {
			log.Error().Err(err).Str("venta_id", v.ID.String()).
				Msg("reconciler_cron: failed to count movements")
			continue
		}

		if count == int64(len(v.Items)) {
			continue
		}

		alerta := ReconciliacionAlerta{
			VentaID:        v.ID.String(),
			NumeroTicket:   v.NumeroTicket,
			ItemsEsperados: len(v.Items),
			Movimientos:    count,
			DetectadoEn:    time.Now().UTC().Format(time.RFC3339),
		}

		log.Error().
			Str("venta_id", alerta.VentaID).
			Int("numero_ticket", alerta.NumeroTicket).
			Int("items_esperados", alerta.ItemsEsperados).
			Int64("movimientos", alerta.Movimientos).
			Msg("reconciler_cron: ledger mismatch detected")

		data, err := json.Marshal(alerta)
		if err != nil {
			log.Error().Err(err).Msg("reconciler_cron: failed to marshal alert")
			continue
		}
		if err := cfg.RDB.LPush(ctx, AlertasReconciliacion, data).Err(); err != nil {
			log.Error().Err(err).Msg("reconciler_cron: failed to push alert")
		}
	}
}
