package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/r34335132-lang/Farmacia-sub000/internal/config"
	"github.com/r34335132-lang/Farmacia-sub000/internal/infra"
	"github.com/r34335132-lang/Farmacia-sub000/internal/repository"
	"github.com/r34335132-lang/Farmacia-sub000/internal/router"
	"github.com/r34335132-lang/Farmacia-sub000/internal/worker"
	"github.com/r34335132-lang/Farmacia-sub000/internal/ws"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker pool for async jobs (receipt PDFs, emailed comprobantes).
	// Handlers are wired here (composition root) so the pool has full access
	// to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	workerHandlers := &worker.WorkerHandlers{
		Comprobante: worker.NewComprobanteWorker(ventaRepo, pedidoRepo, dispatcher, rdb, cfg.NombreFarmacia, cfg.PDFStoragePath),
		Email:       worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Cross-checks the movement ledger against recent completed ventas
	worker.StartReconcilerCron(ctx, worker.ReconcilerConfig{
		VentaRepo:      ventaRepo,
		MovimientoRepo: movimientoRepo,
		RDB:            rdb,
	})

	// Live pedido feed: Redis pub/sub → WebSocket clients
	hub := ws.NewHub()
	go hub.Run(ctx, rdb)

	r := router.New(cfg, db, rdb, hub, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("FarmaPOS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
