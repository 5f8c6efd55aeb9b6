package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/cli"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/config"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/data"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/db"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/game/combat"
	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/gameserver"
)

const DefaultConfigPath = "config/hunterbot.yaml"

func main() {
	configPath := flag.String("config", "", "path to config file (default $HUNTERBOT_CONFIG or "+DefaultConfigPath+")")
	hunterID := flag.String("hunter", "player", "hunter id to act as")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *hunterID); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, hunterID string) error {
	if cfgPath == "" {
		cfgPath = DefaultConfigPath
		if p := os.Getenv("HUNTERBOT_CONFIG"); p != "" {
			cfgPath = p
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout занят REPL, логи пишем в stderr
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("hunterbot starting", "log_level", cfg.LogLevel, "store", cfg.Store.Backend)

	catalog, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	repl := cli.New(nil, os.Stdin, os.Stdout, hunterID)
	srv := gameserver.New(store, catalog, gameserver.Options{
		Rand:     combat.NewRand(),
		Balance:  cfg.Balance,
		Progress: repl.Progress,
	})
	repl.Server = srv

	g, gctx := errgroup.WithContext(ctx)
	gctx, stop := context.WithCancel(gctx)
	defer stop()

	// EOF на stdin тоже завершает работу
	loopDone := make(chan struct{})
	g.Go(func() error {
		defer close(loopDone)
		defer stop()
		slog.Info("accepting commands", "hunter", hunterID)
		if err := repl.Run(gctx); err != nil {
			return fmt.Errorf("command loop: %w", err)
		}
		return nil
	})

	active := 0
	g.Go(func() error {
		<-gctx.Done()
		<-loopDone
		active = srv.ActiveEncounters()
		if err := srv.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("hunterbot stopped", "active_encounters", active)
	return nil
}

func loadCatalog(dir string) (*data.Catalog, error) {
	if dir == "" {
		return data.Load()
	}
	return data.LoadDir(dir)
}

// openStore opens the configured hunter store. The postgres backend also
// applies pending migrations.
func openStore(ctx context.Context, cfg config.Bot) (db.HunterStore, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
		return &pgStore{HunterRepository: db.NewHunterRepository(database.Pool()), db: database}, nil

	case config.BackendMemory:
		slog.Warn("using in-memory store; hunters are lost on exit")
		return db.NewMemoryStore(), nil

	default:
		store, err := db.OpenJSONFileStore(cfg.Store.JSONPath)
		if err != nil {
			return nil, fmt.Errorf("opening json store: %w", err)
		}
		slog.Info("json store opened", "path", cfg.Store.JSONPath)
		return store, nil
	}
}

// pgStore closes the connection pool together with the repository.
type pgStore struct {
	*db.HunterRepository
	db *db.DB
}

func (s *pgStore) Close() error {
	s.db.Close()
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
