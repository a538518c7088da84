package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daniel-Kats256/simulations/config"
	"github.com/Daniel-Kats256/simulations/internal/bootstrap"
	"github.com/Daniel-Kats256/simulations/internal/events"
	"github.com/Daniel-Kats256/simulations/internal/integrity"
	"github.com/Daniel-Kats256/simulations/internal/simulations/engine"
	"github.com/Daniel-Kats256/simulations/internal/simulations/repository"
	simservice "github.com/Daniel-Kats256/simulations/internal/simulations/service"
	"github.com/Daniel-Kats256/simulations/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store := repository.NewRepo(pool)
	eng := engine.New(engine.Options{
		MinDelay: cfg.Simulation.MinDelay,
		MaxDelay: cfg.Simulation.MaxDelay,
	})
	publisher := events.NewPublisher(redisClient)
	simService := simservice.NewService(store, eng, publisher)

	sweeper := integrity.NewSweeper(
		integrity.NewService(store),
		cfg.Simulation.SweepSpec,
		cfg.Simulation.StuckThreshold,
	)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("integrity sweeper: %v", err)
	}
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "simulations-backend",
		Version:     cfg.App.Version,
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
		DB:          pool,
		SimService:  simService,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[info] operation=startup listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[info] operation=shutdown draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[error] operation=shutdown error=%v", err)
	}

	// let in-flight simulation runs reach their finalize write
	simService.Wait()
	log.Println("[info] operation=shutdown complete")
}
