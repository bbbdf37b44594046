package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/internal/catalog"
	"github.com/GL1TCH1337/cs2-retakes/internal/config"
	"github.com/GL1TCH1337/cs2-retakes/internal/cvars"
	"github.com/GL1TCH1337/cs2-retakes/internal/dispatcher"
	"github.com/GL1TCH1337/cs2-retakes/internal/handlers"
	"github.com/GL1TCH1337/cs2-retakes/internal/influx"
	"github.com/GL1TCH1337/cs2-retakes/internal/logging"
	"github.com/GL1TCH1337/cs2-retakes/internal/match"
	"github.com/GL1TCH1337/cs2-retakes/internal/monitor"
	"github.com/GL1TCH1337/cs2-retakes/internal/ordnance"
	intOtel "github.com/GL1TCH1337/cs2-retakes/internal/otel"
	"github.com/GL1TCH1337/cs2-retakes/internal/roster"
	"github.com/GL1TCH1337/cs2-retakes/internal/storage"
	"github.com/GL1TCH1337/cs2-retakes/internal/timer"

	"github.com/Graylog2/go-gelf/gelf"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "retakes"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the fully wired plugin, driven through its dispatcher exactly as the
// game host would drive it.
type app struct {
	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	logFile      *os.File
	otelProvider *intOtel.Provider
	gelfWriter   *gelf.Writer
	influx       *influx.Manager

	backend    storage.Backend
	match      *match.Context
	catalog    *catalog.Catalog
	roster     *roster.Tracker
	cvars      *cvars.Store
	timers     *timer.Manager
	natives    *simNatives
	scheduler  *ordnance.Scheduler
	monitor    *monitor.Service
	handlers   *handlers.Service
	dispatcher *dispatcher.Dispatcher
	ordnance   config.OrdnanceConfig
}

type bootOptions struct {
	configDir string
	// forceEnable schedules ordnance even when the config disables it.
	forceEnable bool
	// extra receives every spawn record alongside storage and InfluxDB.
	extra  ordnance.Recorder
	stderr io.Writer
}

func bootstrap(opts bootOptions) (*app, error) {
	sessionStart := time.Now()
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	a := &app{
		SlogManager: logging.NewSlogManager(),
		match:       match.NewContext(),
	}
	a.SlogManager.Setup(opts.stderr, "info", nil)
	a.Logger = a.SlogManager.Logger()

	if err := config.Load(opts.configDir); err != nil {
		a.Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		a.Logger.Info("Loaded config", "dir", opts.configDir)
	}
	level := config.GetString("logLevel")

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		a.Logger.Warn("Failed to create logs directory", "path", logsDir, "error", err)
	}
	logPath := logging.LogFilePath(logsDir, AppName, sessionStart)
	logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		a.Logger.Error("Failed to create/open log file!", "error", err, "path", logPath)
	} else {
		a.logFile = logFile
	}

	var logOut io.Writer = opts.stderr
	if a.logFile != nil {
		logOut = a.logFile
	}

	// Initialize OTel provider if enabled (after log file is created)
	var otelLogProvider *sdklog.LoggerProvider
	if otelCfg := config.GetOTelConfig(); otelCfg.Enabled {
		a.otelProvider, err = intOtel.New(intOtel.FromConfig(otelCfg, CurrentVersion, logOut))
		if err != nil {
			a.Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			otelLogProvider = a.otelProvider.LoggerProvider()
			a.Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	var sinks []slog.Handler
	if gl := config.GetGraylogConfig(); gl.Enabled {
		h, w, err := logging.DialGraylog(gl.Address, level)
		if err != nil {
			a.Logger.Error("Failed to connect to Graylog", "error", err)
		} else {
			a.gelfWriter = w
			sinks = append(sinks, h)
		}
	}

	// Re-setup logging with file output, optional OTel and Graylog
	a.SlogManager.SetContextProvider(logging.MatchAttrs(a.match))
	a.SlogManager.Setup(logOut, level, otelLogProvider, sinks...)
	a.Logger = a.SlogManager.Logger()
	a.Logger.Info("Starting up...", "version", CurrentVersion, "build", BuildDate, "log", logPath)

	dbLog := logging.NewZerolog(level, logOut)

	a.backend, err = storage.NewBackend(config.GetStorageConfig(), a.Logger, dbLog)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := a.backend.Init(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	recorders := ordnance.Recorders{a.backend, opts.extra}
	a.influx = influx.NewManager(config.GetInfluxConfig(), dbLog)
	switch err := a.influx.Connect(context.Background()); {
	case err == nil:
		recorders = append(recorders, a.influx)
	case errors.Is(err, influx.ErrDisabled):
		a.Logger.Debug("InfluxDB telemetry disabled")
	default:
		a.Logger.Warn("InfluxDB telemetry unavailable", "error", err)
	}

	a.ordnance = config.GetOrdnanceConfig()
	a.catalog = catalog.New()
	a.roster = roster.NewTracker()
	a.cvars = cvars.NewStore(a.ordnance.FreezeTimeCvar)
	a.timers = timer.New()
	a.natives = newSimNatives(a.Logger)

	spawner := ordnance.NewSpawner(ordnance.SpawnerDependencies{
		Natives:  a.natives,
		Recorder: recorders,
		Logger:   a.Logger,
		MapName:  a.match.MapName,
	})
	a.scheduler = ordnance.NewScheduler(ordnance.Dependencies{
		Catalog:  a.catalog,
		Gate:     roster.NewGate(a.roster),
		Settings: a.cvars,
		Timers:   a.timers,
		Spawner:  spawner,
		Logger:   a.Logger,
	})

	var pendingWrites monitor.PendingCounter
	if p, ok := a.backend.(monitor.PendingCounter); ok {
		pendingWrites = p
	}
	a.monitor = monitor.NewService(monitor.Dependencies{
		Match:      a.match,
		Catalog:    a.catalog,
		Index:      a.scheduler.Index(),
		Roster:     a.roster,
		Timers:     a.timers,
		Storage:    pendingWrites,
		StatusFile: filepath.Join(logsDir, "status.json"),
		Logger:     a.Logger,
	})

	var telemetry handlers.Flusher
	if a.otelProvider != nil {
		telemetry = a.otelProvider
	}
	a.handlers = handlers.NewService(handlers.Dependencies{
		Storage:         a.backend,
		Catalog:         a.catalog,
		Scheduler:       a.scheduler,
		Roster:          a.roster,
		Cvars:           a.cvars,
		Match:           a.match,
		Timers:          a.timers,
		Monitor:         a.monitor,
		Logger:          a.Logger,
		Telemetry:       telemetry,
		Enabled:         a.ordnance.Enabled || opts.forceEnable,
		DefaultVelocity: a.ordnance.DefaultVelocity,
		SaveAuthored:    a.ordnance.SaveAuthored,
	})

	a.dispatcher, err = dispatcher.New(logging.NewDispatcherLogger(a.Logger))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}
	a.handlers.RegisterHandlers(a.dispatcher)
	a.Logger.Info("Dispatcher initialized", "commands", a.dispatcher.Commands())

	return a, nil
}

// dispatch feeds one host command through the dispatcher.
func (a *app) dispatch(command string, args ...string) (any, error) {
	return a.dispatcher.Dispatch(dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
}

// Close releases everything bootstrap opened, in reverse order.
func (a *app) Close() error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.influx != nil {
		errs = append(errs, a.influx.Close())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.SlogManager.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.otelProvider != nil {
		errs = append(errs, a.otelProvider.Shutdown(ctx))
	}
	if a.gelfWriter != nil {
		errs = append(errs, a.gelfWriter.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
