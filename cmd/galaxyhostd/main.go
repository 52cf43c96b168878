package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/galaxyhost/server/internal/auth"
	"github.com/galaxyhost/server/internal/config"
	"github.com/galaxyhost/server/internal/game"
	"github.com/galaxyhost/server/internal/gsession"
	"github.com/galaxyhost/server/internal/httpapi"
	"github.com/galaxyhost/server/internal/leaderboard"
	"github.com/galaxyhost/server/internal/matchmaking"
	"github.com/galaxyhost/server/internal/persist"
	"github.com/galaxyhost/server/internal/qos"
	"github.com/galaxyhost/server/internal/redirector"
	"github.com/galaxyhost/server/internal/retriever"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Println()
	fmt.Println("  ┌───────────────────────────────────────────┐")
	fmt.Println("  │              galaxyhost  v0.1.0            │")
	fmt.Println("  │        Mass Effect 3 Blaze emulator        │")
	fmt.Println("  └───────────────────────────────────────────┘")
	fmt.Println()
}

func printOK(msg string) {
	fmt.Printf("  ✓ %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  ▶ %s\n", msg)
}

// run wires every collaborator spec.md §9's Services bundle names, then
// starts the four listeners (main Blaze, redirector, HTTP, QoS UDP)
// under one errgroup so a fatal error in any of them brings the whole
// process down cleanly.
func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("PR_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Storage: PostgreSQL when a DSN is configured, an in-memory Store
	// otherwise (spec.md §4.9's "abstract store" permits either).
	var store persist.Store
	if cfg.Database.DSN() != "" {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("PostgreSQL connected and migrated")
		store = persist.NewPostgresStore(db, cfg.GalaxyAtWar)
	} else {
		printOK("running with in-memory store (no database configured)")
		store = persist.NewMemStore(cfg.GalaxyAtWar.DailyDecay)
	}

	// 4. Signer, game manager, matchmaking, leaderboard, session index
	signer, err := auth.NewSigner(filepath.Join(filepath.Dir(cfg.Database.File), "secret.bin"))
	if err != nil {
		return fmt.Errorf("auth signer: %w", err)
	}

	sessions := gsession.NewIndex()
	games := game.NewManager(sessions, true)
	mm := matchmaking.NewQueue(games, sessions, matchmakingTimeout, log)
	lbCache := leaderboard.NewCache(store, leaderboard.DefaultTTL)

	var originRetriever gsession.OriginRetriever = retriever.Disabled{}

	svc := &gsession.Services{
		Store:       store,
		Signer:      signer,
		Games:       games,
		Matchmaking: mm,
		Leaderboard: lbCache,
		Sessions:    sessions,
		Retriever:   originRetriever,
		MenuMessage: cfg.Server.MenuMessage,
		Log:         log,
	}
	gsession.WireMatchmakingCallback(svc)

	// 5. Router + main Blaze listener
	router := gsession.BuildRouter(svc, log)
	mainAddr := fmt.Sprintf(":%d", cfg.Network.MainPort)
	mainListener, err := gsession.Listen(mainAddr, router, sessions, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return fmt.Errorf("main listener: %w", err)
	}
	printReady(fmt.Sprintf("main Blaze server listening on %s", mainAddr))

	// 6. Redirector (C8)
	redirSrv, err := redirector.New(redirector.Config{Host: "127.0.0.1", Port: uint16(cfg.Network.MainPort)}, log)
	if err != nil {
		return fmt.Errorf("redirector: %w", err)
	}
	redirAddr := fmt.Sprintf(":%d", cfg.Network.RedirectorPort)
	printReady(fmt.Sprintf("redirector listening on %s", redirAddr))

	// 7. QoS UDP responder
	qosSrv := qos.New(log)
	qosAddr := fmt.Sprintf(":%d", cfg.Network.QoSPort)
	printReady(fmt.Sprintf("QoS probe listening on %s", qosAddr))

	// 8. HTTP admin/content surface
	httpEngine := httpapi.New(httpapi.Config{
		Version:        "1.0.0",
		MainPort:       uint16(cfg.Network.MainPort),
		HTTPPort:       uint16(cfg.Network.HTTPPort),
		RedirectorPort: uint16(cfg.Network.RedirectorPort),
		QosPort:        uint16(cfg.Network.QoSPort),
		APIEnabled:     cfg.API.Enabled,
		APIUsername:    cfg.API.Username,
		APIPassword:    cfg.API.Password,
	}, svc, log)
	httpAddr := fmt.Sprintf(":%d", cfg.Network.HTTPPort)
	printReady(fmt.Sprintf("HTTP server listening on %s", httpAddr))
	fmt.Println()

	// 9. Run every listener under one errgroup; a fatal error in any one
	// of them cancels the shared context and brings the rest down.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return mainListener.Serve(gctx) })
	g.Go(func() error { return redirSrv.Serve(gctx, redirAddr) })
	g.Go(func() error { return qosSrv.Serve(gctx, qosAddr) })
	g.Go(func() error { return serveHTTP(gctx, httpAddr, httpEngine) })
	g.Go(func() error { mm.Run(gctx); return nil })

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	g.Go(func() error {
		select {
		case sig := <-sigCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	return g.Wait()
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.EncoderConfig.ConsoleSeparator = "  "
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, filepath.Join(cfg.Dir, "server.log"))
	}

	return zapCfg.Build()
}

// matchmakingTimeout is how long an unmatched ticket sits in the queue
// before Reevaluate's expiry sweep drops it (spec.md §4.6).
const matchmakingTimeout = 5 * time.Minute

// serveHTTP runs engine behind a net/http.Server, shutting it down
// gracefully when ctx is cancelled.
func serveHTTP(ctx context.Context, addr string, engine http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: engine}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
