package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	"studyhub"
	"studyhub/dashboard"
	"studyhub/sqlite"
)

const Version = "0.1.0"

func main() {
	// logger
	log.SetLevel(log.DebugLevel)
	log.SetReportCaller(true)
	topCtx, topCtxC := context.WithCancel(context.Background())

	// config
	cfg, err := studyhub.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// db
	log.Info("opening db", "path", cfg.DatabaseURL)
	db, err := initDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed database open", "err", err)
	}
	defer db.Close() //nolint

	tx, dbGetter := txStdLib.NewTransactor(
		db,
		txStdLib.NestedTransactionsSavepoints,
	)

	repo := sqlite.NewSessionRepo(dbGetter, *log.Default())
	apiClient := dashboard.NewClient(cfg.APIBaseURL, cfg.APIToken, *log.Default())
	sounds := newSoundCatalog(cfg.SoundsDir, *log.Default())
	h := newHub(*log.Default())

	// engine
	engine := NewEngine(topCtx, repo, repo, tx, apiClient, apiClient, h, *log.Default())
	initTimeout, initTimeoutC := context.WithTimeout(topCtx, 10*time.Second)
	panicif(engine.Restore(initTimeout))
	initTimeoutC()
	engine.Start()

	// midnight rollover; the check is idempotent per calendar date
	cr := cron.New()
	_, err = cr.AddFunc("5 0 * * *", func() {
		if err := engine.RolloverCheck(topCtx); err != nil {
			log.Error("rollover check failed", "err", err)
		}
	})
	panicif(err)
	cr.Start()

	// http
	app := newServer(engine, sounds, h, *log.Default())
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatal("server stopped", "err", err)
		}
	}()
	log.Info("studyd running. Press CTRL-C to exit.", "addr", cfg.HTTPAddr, "version", Version)

	// graceful shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	log.Info("terminating studyd")
	topCtxC()
	shutdownTimeout, shutdownTimeoutC := context.WithTimeout(context.Background(), time.Minute)
	go func() {
		// to ensure proper shutdown ordering...
		<-cr.Stop().Done()
		if err := engine.Shutdown(); err != nil {
			log.Error(err)
		}
		if err := app.Shutdown(); err != nil {
			log.Error(err)
		}
		shutdownTimeoutC()
	}()
	<-shutdownTimeout.Done()
	if shutdownTimeout.Err() != context.Canceled {
		log.Error("failed to shut down gracefully", "err", shutdownTimeout.Err())
	}
}

func panicif(err error) {
	if err != nil {
		panic(err)
	}
}
