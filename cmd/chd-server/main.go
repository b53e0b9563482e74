package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/chd/chd/internal/config"
	"github.com/chd/chd/internal/domain/analytics"
	"github.com/chd/chd/internal/domain/ingest"
	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/internal/domain/prediction"
	"github.com/chd/chd/internal/platform/blobstore"
	"github.com/chd/chd/internal/platform/db"
	"github.com/chd/chd/internal/platform/middleware"
)

const appName = "chd-server"

func main() {
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "CHD risk dataset API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run PostgreSQL schema migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			migrator, closeFn, err := openMigrator(ctx, dir)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			migrator, closeFn, err := openMigrator(ctx, dir)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func openMigrator(ctx context.Context, dir string) (*db.Migrator, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Backend() != config.BackendPostgres {
		return nil, nil, fmt.Errorf("migrations only apply to the postgres backend, DATABASE_URL selects %q", cfg.Backend())
	}
	if dir == "" {
		dir = cfg.MigrationsDir
	}
	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return db.NewMigrator(pool, dir), pool.Close, nil
}

// importCmd runs the same ingestion as POST /api/import-data without a server.
func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the cohort CSV into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if source != "" {
				cfg.DatasetPath = source
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()

			svc, err := newIngestService(ctx, cfg, st.repo)
			if err != nil {
				return err
			}
			res, err := svc.Import(ctx)
			if err != nil {
				return err
			}
			ev := logger.Info().Str("source", cfg.DatasetPath).Int("count", res.Count)
			if r := res.Report; r != nil {
				ev = ev.Int("rows", r.Rows).
					Int("kept", r.Kept).
					Int("dropped_missing", r.DroppedMissing).
					Int("dropped_invalid", r.DroppedInvalid).
					Strs("dropped_columns", r.DroppedColumns).
					Dict("filled", filledDict(r.Filled))
			}
			ev.Msg(res.Message)
			return nil
		},
	}
	cmd.Flags().String("source", "", "CSV path or s3://bucket/key (defaults to DATASET_PATH)")
	return cmd
}

// filledDict renders per-field fill counts in field name order.
func filledDict(filled map[patient.Field]int) *zerolog.Event {
	d := zerolog.Dict()
	fields := lo.Keys(filled)
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	for _, f := range fields {
		d = d.Int(string(f), filled[f])
	}
	return d
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		ApplicationName: appName,
	}
}

// store is the opened record store plus whatever must be released on exit.
type store struct {
	repo    patient.PatientRepository
	backend string
	close   func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch backend := cfg.Backend(); backend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, poolConfig(cfg))
		if err != nil {
			return nil, err
		}
		return &store{repo: patient.NewPatientRepoPG(pool), backend: backend, close: pool.Close}, nil
	case config.BackendMongo:
		session, dbName, err := db.DialMongo(db.MongoConfig{
			URL:      cfg.DatabaseURL,
			Database: cfg.MongoDatabase,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return &store{repo: patient.NewPatientRepoMongo(session, dbName), backend: backend, close: session.Close}, nil
	case config.BackendMemory:
		return &store{repo: patient.NewPatientRepoMemory(), backend: backend, close: func() {}}, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", backend)
	}
}

func newIngestService(ctx context.Context, cfg *config.Config, repo patient.PatientRepository) (*ingest.Service, error) {
	source, key, err := blobstore.Resolve(ctx, cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset source: %w", err)
	}
	return ingest.NewService(repo, source, key), nil
}

// newServer builds the HTTP surface. model may be nil.
func newServer(cfg *config.Config, logger zerolog.Logger, st *store, model *prediction.Model, importer *ingest.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders(cfg.HSTS))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "CHD Analysis API"})
	})
	e.GET("/health/db", db.HealthHandler(st.repo, st.backend))

	api := e.Group("/api")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		IdleTTL:           10 * time.Minute,
	}))

	patient.NewHandler(patient.NewService(st.repo)).RegisterRoutes(api)
	analytics.NewHandler(analytics.NewService(st.repo)).RegisterRoutes(api)
	prediction.NewHandler(prediction.NewService(model)).RegisterRoutes(api)
	ingest.NewHandler(importer).RegisterRoutes(api)

	return e
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend()).Msg("failed to connect to database")
	}
	defer st.close()
	logger.Info().Str("backend", st.backend).Msg("connected to database")

	// The server still starts without a model; /api/predict reports it.
	model, err := prediction.LoadModel(ctx, cfg.ModelPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.ModelPath).Msg("model not loaded")
	} else {
		logger.Info().Str("version", model.Info().Version).Msg("model loaded")
	}

	importer, err := newIngestService(ctx, cfg, st.repo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure dataset source")
	}

	e := newServer(cfg, logger, st, model, importer)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
