package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/robojar/pumpd/internal/infra/buildinfo"
	"github.com/robojar/pumpd/internal/infra/confloader"
	"github.com/robojar/pumpd/internal/server/config"
	"github.com/robojar/pumpd/internal/server/supervisor"
	"github.com/robojar/pumpd/internal/telemetry/logger"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "pumpd",
		Usage:   "Supervise the pump controller and accept pump commands",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				EnvVars: []string{"PUMPD_CONFIG"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "command port (server.command.port)",
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "status endpoint address, empty to disable (server.http.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (log.level)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json (log.format)",
			},
		},
		Action: run,
		// Errors are printed once by main.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func run(c *cli.Context) error {
	loader := newLoader(c)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting pumpd", append([]any{"version", buildinfo.Get().Version}, config.LogAttrs(cfg)...)...)

	if path := loader.FilePath(); path != "" {
		w, err := watchConfig(path, func() *confloader.Loader { return newLoader(c) }, cfg, log)
		if err != nil {
			log.Warn("config watch disabled", "path", path, "error", err)
		} else {
			defer w.Stop()
		}
	}

	sup := supervisor.New(supervisor.Options{
		Config:  cfg,
		Metrics: metric.Global(),
		Logger:  log,
	})
	return sup.Run(c.Context)
}

// flagKeys maps pumpd flags to configuration keys.
var flagKeys = map[string]string{
	"port":       "server.command.port",
	"http-addr":  "server.http.addr",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// newLoader builds the layered loader: defaults, file, PUMPD_* env, then
// flags that were explicitly set.
func newLoader(c *cli.Context) *confloader.Loader {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.Value(flag)
		}
	}

	opts := []confloader.Option{
		confloader.WithDefaults(config.DefaultMap()),
		confloader.WithOverrides(overrides),
		confloader.WithListKeys("child.command", "actions.start_pump", "actions.stop_pump"),
	}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	return confloader.NewLoader(opts...)
}

func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := &config.ServerConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// watchConfig reloads the configuration file when it changes. Only log.level
// is applied live; any other difference is reported as needing a restart.
func watchConfig(path string, newLoader func() *confloader.Loader, current *config.ServerConfig, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		applyReload(newLoader(), current, log)
	})
	w.StartAsync()
	return w, nil
}

// applyReload loads a fresh configuration and applies what can change live.
// It reports whether the log level changed.
func applyReload(loader *confloader.Loader, current *config.ServerConfig, log logger.Logger) bool {
	next, err := loadConfig(loader)
	if err != nil {
		log.Error("config reload rejected", "error", err)
		return false
	}

	changed := false
	if next.Log.Level != logger.GetLevel() {
		logger.SetLevel(next.Log.Level)
		log.Info("log level changed", "level", next.Log.Level)
		changed = true
	}

	if !sameExceptLevel(next, current) {
		log.Warn("config changed on disk; restart pumpd to apply settings other than log.level")
	}
	return changed
}

func sameExceptLevel(a, b *config.ServerConfig) bool {
	return a.Server == b.Server &&
		a.Log.Format == b.Log.Format &&
		slices.Equal(a.Child.Command, b.Child.Command) &&
		slices.Equal(a.Actions.StartPump, b.Actions.StartPump) &&
		slices.Equal(a.Actions.StopPump, b.Actions.StopPump)
}
