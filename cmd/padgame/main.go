// cmd/padgame/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-padgame/pkg/config"
	"github.com/opd-ai/go-padgame/pkg/event"
	"github.com/opd-ai/go-padgame/pkg/feedback"
	"github.com/opd-ai/go-padgame/pkg/game"
	"github.com/opd-ai/go-padgame/pkg/gamepad"
	"github.com/opd-ai/go-padgame/pkg/health"
	"github.com/opd-ai/go-padgame/pkg/logging"
	"github.com/opd-ai/go-padgame/pkg/render"
	padengo "github.com/opd-ai/go-padgame/pkg/render/engo"
	"github.com/opd-ai/go-padgame/pkg/resource"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "padgame.yaml", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	rendererName := flag.String("renderer", "engo", "Renderer backend: engo, terminal, or null")
	seed := flag.Uint64("seed", 0, "Deterministic RNG seed (0 uses the clock)")
	width := flag.Int("width", 960, "Window width in pixels (engo renderer)")
	height := flag.Int("height", 720, "Window height in pixels (engo renderer)")
	fullscreen := flag.Bool("fullscreen", false, "Run fullscreen (engo renderer)")
	debug := flag.Bool("debug", true, "Show the input debug panel (terminal renderer)")
	flag.Parse()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	gameConfig := loadConfig(ctx, logger, *configPath)

	envConfig, err := config.LoadConfigFromEnv()
	if err != nil {
		logger.Error(ctx, "Failed to load environment configuration", err)
		os.Exit(1)
	}

	resources := resource.NewManager(envConfig)
	if err := resources.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource manager", err)
		os.Exit(1)
	}

	bus := event.NewEventBus()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	var source gamepad.Source
	var keyboard *render.KeyboardSource
	switch *rendererName {
	case "engo":
		source = padengo.NewGamepadSource(true)
	case "terminal":
		keyboard = render.NewKeyboardSource()
		source = keyboard
	case "null":
		source = gamepad.NewScriptedSource()
	default:
		logger.Error(ctx, "Unknown renderer", nil, "renderer", *rendererName)
		os.Exit(1)
	}

	bridge := gamepad.NewBridge(source, bus, envConfig,
		gameConfig.Input.Deadzone, gameConfig.Haptics.MaxPulsesPerSec)

	g, err := game.NewGame(gameConfig, bus, bridge, rngSeed)
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		os.Exit(1)
	}

	fb := feedback.NewManager(gameConfig.Haptics, bridge)
	g.SetPulser(fb)
	if gameConfig.Haptics.Audio {
		if err := fb.InitAudio(); err != nil {
			logger.Warn(ctx, "Continuing without audio feedback", "error", err.Error())
		}
	}

	healthServer := startHealthServer(ctx, logger, envConfig, resources, bridge, g)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	switch *rendererName {
	case "engo":
		// The scene polls the bridge synchronously each frame; no
		// background poll loop. Run blocks until the window closes.
		scale := windowScale(*width, *height, gameConfig.Board.Width, gameConfig.Board.Height)
		scene := padengo.NewGameScene(g, bridge)
		padengo.Run("padgame", *width, *height, *fullscreen, scale, scene)
	case "terminal":
		if err := runTerminal(runCtx, cancel, g, bridge, keyboard, gameConfig, *debug); err != nil {
			logger.Error(ctx, "Terminal renderer failed", err)
		}
	case "null":
		if err := bridge.Start(runCtx); err != nil {
			logger.Error(ctx, "Failed to start gamepad bridge", err)
			os.Exit(1)
		}
		g.Run(runCtx, render.NewNullRenderer())
		bridge.Stop()
	}

	logger.Info(ctx, "Shutting down", "score", g.Score())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), envConfig.ShutdownTimeout)
	defer shutdownCancel()

	if healthServer != nil {
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Health server shutdown failed", err)
		}
	}
	if err := resources.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Resource manager shutdown failed", err)
	}
}

// loadConfig reads the configuration file, falling back to defaults
// when the file does not exist.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) *config.GameConfig {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig()
	}

	gameConfig, err := config.LoadConfig(path)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", path,
		)
		os.Exit(1)
	}
	return gameConfig
}

// startHealthServer serves the liveness and readiness probes when
// enabled by the environment. Returns nil when disabled.
func startHealthServer(ctx context.Context, logger *logging.Logger, envConfig *config.EnvironmentConfig, resources *resource.Manager, bridge *gamepad.Bridge, g *game.Game) *http.Server {
	if !envConfig.HealthEnabled {
		return nil
	}

	checker := health.NewHealthChecker()
	checker.AddCheck(&gamepad.HealthCheck{Bridge: bridge})
	checker.AddCheck(&game.HealthCheck{Game: g})
	checker.AddCheck(resource.NewHealthCheck(resources))
	checker.AddCheck(health.NewMemoryHealthCheck(envConfig.MaxMemoryMB, resource.CurrentMemoryMB))

	server := checker.NewServer(envConfig.HealthAddr)
	err := resources.StartGoroutine(ctx, "health-server", func(ctx context.Context) {
		logger.Info(ctx, "Starting health server", "addr", envConfig.HealthAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Health server failed", err)
		}
	})
	if err != nil {
		logger.Error(ctx, "Failed to start health server goroutine", err)
		return nil
	}
	return server
}

// runTerminal drives the tcell renderer: the game loop runs on its own
// goroutine while the main goroutine owns the screen event loop.
func runTerminal(ctx context.Context, cancel context.CancelFunc, g *game.Game, bridge *gamepad.Bridge, keyboard *render.KeyboardSource, gameConfig *config.GameConfig, debug bool) error {
	screen, err := render.NewTerminalScreen()
	if err != nil {
		return err
	}
	defer screen.Fini()

	if err := bridge.Start(ctx); err != nil {
		return err
	}
	defer bridge.Stop()

	renderer := render.NewTerminalRenderer(screen,
		gameConfig.Board.Width, gameConfig.Board.Height, debug)

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Run(ctx, renderer)
	}()

	render.EventLoop(ctx, cancel, screen, keyboard)
	cancel()
	<-done
	return nil
}

// windowScale maps world units to pixels so the board fills the window.
func windowScale(width, height int, boardWidth, boardHeight float64) float32 {
	sx := float64(width) / boardWidth
	sy := float64(height) / boardHeight
	if sy < sx {
		sx = sy
	}
	return float32(sx)
}
