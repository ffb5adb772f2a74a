package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/spf13/cobra"

	"github.com/eqpop/poptracker/internal/domain/flags"
	"github.com/eqpop/poptracker/poptracker"
	"github.com/eqpop/poptracker/poptracker/commands"
	"github.com/eqpop/poptracker/poptracker/config"
	"github.com/eqpop/poptracker/poptracker/database"
	"github.com/eqpop/poptracker/poptracker/database/repositories"
	"github.com/eqpop/poptracker/poptracker/health"
	"github.com/eqpop/poptracker/poptracker/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath   string
	syncCommands bool
	storeBackend string
)

var rootCmd = &cobra.Command{
	Use:           "poptracker",
	Short:         "Discord bot tracking Planes of Power flag progression",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
	rootCmd.Flags().BoolVar(&syncCommands, "sync-commands", false, "whether to sync commands to discord")
	rootCmd.Flags().StringVar(&storeBackend, "store", "", "override the store backend (postgres or memory)")
}

// Execute runs the CLI and exits non-zero on failure.
func Execute(v, c string) {
	version, commit = v, c
	logger.Setup(os.Stdout, slog.LevelInfo, true)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.LogError("Command failed", err)
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*poptracker.Config, error) {
	cfg, err := poptracker.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Color)
	logger.LogSystem("Configuration loaded", slog.String("path", configPath))
	return cfg, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
		if err = cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	if err = cfg.Bot.Validate(); err != nil {
		return fmt.Errorf("invalid bot config: %w", err)
	}

	logger.LogSystem("Starting PopTracker",
		slog.String("version", version),
		slog.String("commit", commit))

	catalog, err := flags.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	logger.LogSystem("Flag catalog loaded",
		slog.Int("flags", catalog.Len()),
		slog.String("root", catalog.Root().Key),
		slog.String("terminal", catalog.Terminal().Key))

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	status := health.NewStatus()
	service := flags.NewService(flags.NewEngine(catalog), store,
		flags.WithStoreTimeout(cfg.Store.Timeout.Std()),
		flags.WithStoreObserver(status),
		flags.WithKnownPlayerCache(config.KnownPlayerCacheSize),
	)

	b := poptracker.New(*cfg, service, status, version, commit)

	h := handler.New()
	commands.Register(h, b)

	if err = b.SetupBot(h); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(closeCtx)
	}()

	if syncCommands {
		logger.LogSystem("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			logger.LogError("Failed to sync commands", err, slog.String("component", "command_sync"))
		}
	}

	if cfg.Health.Addr != "" {
		srv := health.NewServer(cfg.Health.Addr, status)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.LogError("Failed to stop health server", err)
			}
		}()
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go status.Monitor(monitorCtx, service, cfg.Health.CheckInterval.Std())
	go b.WatchGateway(monitorCtx, cfg.Health.CheckInterval.Std())

	openCtx, cancel := context.WithTimeout(ctx, config.GatewayOpenTimeout)
	defer cancel()
	if err = b.Client.OpenGateway(openCtx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	<-ctx.Done()
	logger.LogSystem("Shutting down bot...")
	status.SetReady(false)
	return nil
}

// openStore returns the configured flags.Store and a function releasing it.
func openStore(ctx context.Context, cfg *poptracker.Config) (flags.Store, func(), error) {
	if cfg.Store.Backend == poptracker.StoreBackendMemory {
		slog.Warn("Using in-memory store; progress is lost on restart", slog.String("type", "sys"))
		return flags.NewMemoryStore(), func() {}, nil
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPlayerRepository(db.BunDB()), db.Close, nil
}

// connectDB opens the pool and makes sure the schema exists.
func connectDB(ctx context.Context, cfg *poptracker.Config) (*database.DB, error) {
	start := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(start)))

	schemaCtx, cancel := context.WithTimeout(ctx, config.SchemaInitTimeout)
	defer cancel()
	if err = db.InitializeSchema(schemaCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return db, nil
}
