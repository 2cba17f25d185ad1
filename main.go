package main

// Vending machine terminal.
//
// The customer menu runs on stdin/stdout. When STATUS_ADDR is set, a
// read-only status API is served alongside it:
// GET /products - catalog with selection indices
// GET /products/{index} - one product
// GET /balance - current machine balance
// GET /analytics - sales analytics report

// --- EMBED MIGRATIONS ---
import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vending-machine/config"
	"vending-machine/console"
	"vending-machine/handler"
	"vending-machine/logging"
	"vending-machine/service"
	"vending-machine/session"
	"vending-machine/store"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.Setup(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("vending machine stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	// --- Store ---
	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// --- Service ---
	svc, err := service.Open(ctx, st, service.Options{Timeout: cfg.Store.Timeout, Logger: logger})
	if err != nil {
		return err
	}
	var serviceInterface service.ServiceInterface = svc

	// --- Status server ---
	if cfg.StatusAddr != "" {
		srv := newStatusServer(cfg.StatusAddr, serviceInterface)
		go func() {
			logger.Info("status server running", zap.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server error", zap.Error(err))
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	// --- Session ---
	prompt := console.New(os.Stdin, os.Stdout)
	return session.New(serviceInterface, prompt, cfg.Passcode, logger).Run(ctx)
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (store.Store, error) {
	octx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverPostgres:
		st, err := store.NewPostgresStore(octx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("DB connection failed: %w", err)
		}
		if cfg.RunMigrations {
			if err := st.Migrate(octx, migrationSQL); err != nil {
				_ = st.Close()
				return nil, fmt.Errorf("failed running migrations: %w", err)
			}
			logger.Info("database migrations executed successfully")
		}
		return st, nil

	case config.DriverGorm:
		st, err := store.NewGormStore(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("DB connection failed: %w", err)
		}
		if cfg.RunMigrations {
			if err := st.Migrate(octx); err != nil {
				_ = st.Close()
				return nil, fmt.Errorf("failed running migrations: %w", err)
			}
			logger.Info("database schema migrated")
		}
		return st, nil

	default:
		if cfg.SeedFile == "" {
			logger.Warn("memory store without SEED_FILE: catalog is empty")
			return store.NewMemoryStore(nil), nil
		}
		st, err := store.NewMemoryStoreFromFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		logger.Info("memory store seeded", zap.String("file", cfg.SeedFile))
		return st, nil
	}
}

func newStatusServer(addr string, svc service.ServiceInterface) *http.Server {
	// --- Handlers ---
	h := handler.NewHandler(svc)

	// --- Router ---
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
