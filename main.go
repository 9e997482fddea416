// Command card-match-game starts the Card Match Game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from an optional settings file and CARDMATCH_* environment
// variables; flags override both. An ngrok tunnel can expose the server
// publicly during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/card-match-game/api"
	"github.com/wricardo/card-match-game/game/config"
	"github.com/wricardo/card-match-game/game/service"
	"github.com/wricardo/card-match-game/game/session"
	"github.com/wricardo/card-match-game/settings"
	"github.com/wricardo/card-match-game/transport/mcp"
	"github.com/wricardo/card-match-game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Card Match Game Server"
)

func main() {
	loadDotEnv()
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// loadDotEnv loads .env from the working directory. It must run before the
// command line is parsed so NGROK_* values in .env reach the ngrok flags.
func loadDotEnv() {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}
}

// newApp builds the command line. The first argument selects the mode.
func newApp() *cli.Command {
	return &cli.Command{
		Name:      "card-match-game",
		Usage:     AppName,
		Version:   Version,
		ArgsUsage: "[server|http|stdio-mcp|mcp-stdio|mcp]",
		Description: `Modes:
  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)
  stdio-mcp        Run MCP stdio server with internal HTTP server
  mcp-stdio, mcp   Aliases for stdio-mcp`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Usage: "Settings file (yaml or json)", Sources: cli.EnvVars("CARDMATCH_SETTINGS")},
			&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
			&cli.StringFlag{Name: "levels-dir", Usage: "Directory containing level_<id>.json files"},
			&cli.IntFlag{Name: "default-level", Usage: "Level served when a session names none"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.StringFlag{Name: "log-format", Usage: "Log format: console or json"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: run,
	}
}

// loadSettings reads the settings file and environment, then applies flags
func loadSettings(cmd *cli.Command) (*settings.Settings, error) {
	s, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		s.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("levels-dir") {
		s.Levels.Dir = cmd.String("levels-dir")
	}
	if cmd.IsSet("default-level") {
		s.Levels.Default = int(cmd.Int("default-level"))
	}
	if cmd.Bool("debug") {
		s.Logging.Level = "debug"
	}
	if cmd.IsSet("log-format") {
		s.Logging.Format = cmd.String("log-format")
	}
	if cmd.IsSet("ngrok") {
		s.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		s.Ngrok.Authtoken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		s.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	return s, s.Validate()
}

func run(ctx context.Context, cmd *cli.Command) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, err := settings.NewLogger(s.Logging.Level, s.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	mode := "server"
	if cmd.Args().Len() > 0 {
		mode = cmd.Args().First()
	}

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", mode))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(s, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer app.hub.Stop()

	go sessionCleanupRoutine(ctx, app.sessions, s.Sessions, logger)
	go reloadLevelsOnHangup(ctx, app)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		return runStdioMCPWithInternalServer(ctx, app)
	case "server", "http":
		return runHTTPServer(ctx, app)
	default:
		return fmt.Errorf("unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// application holds the wired services shared by every mode
type application struct {
	settings *settings.Settings
	logger   *zap.Logger
	levels   *config.Manager
	sessions *session.Manager
	hub      *websocket.Hub
	service  service.GameService
}

// newApplication wires level/session managers, the WebSocket hub and the game
// service. The hub is started and receives every committed change.
func newApplication(s *settings.Settings, logger *zap.Logger) (*application, error) {
	levelManager, err := config.NewManager(s.Levels.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	if err := applyDefaultLevel(levelManager, s.Levels.Default); err != nil {
		return nil, err
	}

	sessionManager := session.NewManager()

	hub := websocket.NewHub(logger.Named("websocket"))
	go hub.Run()

	gameService := service.NewGameService(sessionManager, levelManager,
		service.WithLogger(logger.Named("service")),
		service.WithEventPublisher(hub),
	)

	return &application{
		settings: s,
		logger:   logger,
		levels:   levelManager,
		sessions: sessionManager,
		hub:      hub,
		service:  gameService,
	}, nil
}

// applyDefaultLevel makes id the default level. A negative id keeps the
// manager's own choice.
func applyDefaultLevel(levels *config.Manager, id int) error {
	if id < 0 {
		return nil
	}
	if err := levels.SetDefault(id); err != nil {
		return fmt.Errorf("failed to set default level %d: %w", id, err)
	}
	return nil
}

// reloadLevels drops cached levels so edited files are served again
func (a *application) reloadLevels() error {
	if err := a.levels.RefreshCache(); err != nil {
		return fmt.Errorf("failed to reload levels: %w", err)
	}
	if err := applyDefaultLevel(a.levels, a.settings.Levels.Default); err != nil {
		return err
	}
	a.logger.Info("levels reloaded", zap.Int("default_level", a.levels.GetDefault().LevelID))
	return nil
}

// reloadLevelsOnHangup reloads the levels directory on every SIGHUP
func reloadLevelsOnHangup(ctx context.Context, a *application) {
	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hangup:
			if err := a.reloadLevels(); err != nil {
				a.logger.Error("level reload failed", zap.Error(err))
			}
		}
	}
}

// newHandler combines the REST API with the /mcp proxy endpoint
func (a *application) newHandler(baseURL string) http.Handler {
	apiServer := api.NewServer(a.service, a.hub, a.logger.Named("api"))
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runHTTPServer serves REST, WebSocket and /mcp until ctx is cancelled.
// When ngrok is enabled the same handler is also served through a tunnel.
func runHTTPServer(ctx context.Context, a *application) error {
	addr := a.settings.Server.Addr()
	handler := a.newHandler(fmt.Sprintf("http://%s", addr))
	logger := a.logger

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("rest", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
		)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if a.settings.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, a.settings.Ngrok, handler, logger.Named("ngrok"))
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx ends
func runNgrokTunnel(ctx context.Context, s settings.NgrokSettings, handler http.Handler, logger *zap.Logger) {
	if s.Authtoken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or CARDMATCH_NGROK_AUTHTOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if s.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.Domain))
		logger.Info("using custom ngrok domain", zap.String("domain", s.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(s.Authtoken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("rest", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws?session=<session_id>"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		logger.Warn("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the configured ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, s settings.SessionSettings, logger *zap.Logger) {
	ticker := time.NewTicker(s.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanupExpiredSessions(manager, s.TTL, logger)
		}
	}
}

func cleanupExpiredSessions(manager *session.Manager, ttl time.Duration, logger *zap.Logger) int {
	removed := manager.CleanupExpiredSessions(ttl)
	if removed > 0 {
		logger.Info("cleaned up expired sessions", zap.Int("removed", removed), zap.Int("remaining", manager.Count()))
	}
	return removed
}

// apiAvailable reports whether a game API answers at baseURL
func apiAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an external API when one answers at the configured URL; otherwise
// it starts an internal HTTP API bound to a random loopback port.
func runStdioMCPWithInternalServer(ctx context.Context, a *application) error {
	logger := a.logger
	externalURL := a.settings.MCP.ExternalURL

	var baseURL string
	logger.Info("checking for external API server", zap.String("url", externalURL))

	if externalURL != "" && apiAvailable(externalURL) {
		logger.Info("external API server found, using it for MCP", zap.String("url", externalURL))
		baseURL = externalURL
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		baseURL = fmt.Sprintf("http://%s", internalAddr)
		logger.Info("starting internal HTTP server for MCP stdio", zap.String("addr", internalAddr))

		httpServer := &http.Server{
			Handler: api.NewServer(a.service, a.hub, logger.Named("api")),
		}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
