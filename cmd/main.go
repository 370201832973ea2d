package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/blockchain"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/config"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/contest"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/handler"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/ipfs"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/repository"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/scheduler"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/service"
	"github.com/Yolazega/web3-music-platform-new-sub000/internal/store"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	cal, err := contest.NewCalendar(cfg.Contest.Epoch, cfg.Contest.Timezone)
	if err != nil {
		logger.Fatal("Failed to build contest calendar:", err)
	}

	db, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal("Failed to open submission store:", err)
	}
	logger.Info("Submission store at ", db.Path())

	trackRepo := repository.NewTrackRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	shareRepo := repository.NewShareRepository(db)

	pinner := ipfs.NewPinataClient(cfg.IPFS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher service.ChainPublisher
	if cfg.ChainEnabled() {
		client, err := blockchain.NewClient(ctx, &cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to connect to chain:", err)
		}
		defer client.Close()

		p, err := blockchain.NewPublisher(client, &cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to build chain publisher:", err)
		}
		publisher = p
		logger.Info("Chain publisher ready, contract ", cfg.Chain.ContractAddress)
	} else {
		logger.Warn("Chain configuration incomplete, on-chain publishing disabled")
	}

	trackSvc := service.NewTrackService(trackRepo, pinner, publisher, cal, cfg.Contest)
	voteSvc := service.NewVoteService(voteRepo, trackRepo, cal, cfg.Contest)
	shareSvc := service.NewShareService(shareRepo)

	if cfg.Contest.WeeklyPublishEnabled {
		publishScheduler := scheduler.NewPublishScheduler(trackSvc, cfg.Contest.WeeklyPublishCron)
		if err := publishScheduler.Start(); err != nil {
			logger.Fatal("Failed to start weekly publish scheduler:", err)
		}
		defer publishScheduler.Stop()
	}

	api := handler.NewAPI(trackSvc, voteSvc, shareSvc)
	router := api.Router(cfg.CORS)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting on port ", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error:", err)
	}

	logger.Info("Server stopped")
}
