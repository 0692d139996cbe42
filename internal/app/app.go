package app

import (
	"context"
	"errors"

	"github.com/go-redis/redis"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/domains/answer"
	"github.com/xpanvictor/voxqa/internal/domains/coordinator"
	"github.com/xpanvictor/voxqa/internal/domains/session"
	"github.com/xpanvictor/voxqa/internal/domains/transcription"
	"github.com/xpanvictor/voxqa/internal/handlers"
	"github.com/xpanvictor/voxqa/internal/handlers/websocket"
	"github.com/xpanvictor/voxqa/internal/server"
	"github.com/xpanvictor/voxqa/pkg/Logger"
	"github.com/xpanvictor/voxqa/pkg/io"
	"github.com/xpanvictor/voxqa/pkg/io/redisbus"
	"github.com/xpanvictor/voxqa/pkg/io/registry"
	memoryregistry "github.com/xpanvictor/voxqa/pkg/io/registry/memoryRegistry"
)

// App represents the application with all its dependencies
type App struct {
	Config         *config.Settings
	Logger         *Logger.Logger
	RC             *redis.Client
	DeviceRegistry registry.Registry
	Publisher      *io.Publisher
	Session        *session.Store
	Engine         *transcription.Engine
	Coordinator    *coordinator.Coordinator
	ServerDeps     server.Dependencies

	providers *ProviderFactory
	wsHandler *websocket.WebSocketHandler
}

// NewApp creates a new application instance with all dependencies properly wired.
// rc may be nil when the redis event bus is disabled.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		RC:     rc,
	}

	if err := app.setupDependencies(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(ctx context.Context) error {
	// 1. Shared registry and the publisher fanning events into it
	a.DeviceRegistry = memoryregistry.New()
	a.Publisher = io.New(a.DeviceRegistry, a.Logger)
	if a.RC != nil {
		sink := redisbus.New(a.RC, a.Config.Redis.Channel)
		if err := a.DeviceRegistry.Attach(sink); err != nil {
			return err
		}
		a.Logger.Infof("Publishing task events on redis channel %s", a.Config.Redis.Channel)
	}

	// 2. Providers
	a.providers = NewProviderFactory(a.Config, a.Logger)
	provider, err := a.providers.CreateAssistant(ctx)
	if err != nil {
		return err
	}
	speech, err := a.providers.SpeechFactory()
	if err != nil {
		return err
	}

	// 3. Domain services
	a.Session = session.New()
	a.Engine = transcription.NewEngine(speech, a.Config.Speech.Models, a.Config.Pipeline, a.Logger)
	deps := coordinator.Deps{
		Session:           a.Session,
		Transcriber:       a.Engine,
		Generator:         answer.NewGenerator(provider, a.Logger),
		Notifier:          a.Publisher,
		Logger:            a.Logger,
		GenerationTimeout: a.Config.Pipeline.GenerationTimeout,
	}
	direct, err := a.providers.CreateDirectAssistant(ctx)
	if err != nil {
		return err
	}
	if direct != nil {
		deps.Direct = answer.NewDirectPath(direct, a.Logger)
	}
	a.Coordinator = coordinator.New(deps)

	// 4. Transport handlers
	a.wsHandler = websocket.NewWebSocketHandler(a.Logger, a.Coordinator, a.DeviceRegistry, a.Config.Server.SessionTimeout, a.Config.Server.CORSOrigins)
	a.ServerDeps = server.NewServerDependencies(
		handlers.NewTaskHandler(a.Coordinator, a.Config.Server.UploadDir, a.Config.Server.MaxUploadMB, a.Logger),
		a.wsHandler,
		a.Logger,
	)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Shutdown cancels any running task and waits for it to settle
func (a *App) Shutdown(ctx context.Context) error {
	if a.Coordinator == nil {
		return nil
	}
	return a.Coordinator.Shutdown(ctx)
}

// Close releases provider clients, sockets and the redis connection
func (a *App) Close() error {
	var errs []error
	if a.wsHandler != nil {
		errs = append(errs, a.wsHandler.Close())
	}
	if a.Engine != nil {
		errs = append(errs, a.Engine.Close())
	}
	if a.providers != nil {
		errs = append(errs, a.providers.Close())
	}
	if a.RC != nil {
		errs = append(errs, a.RC.Close())
	}
	return errors.Join(errs...)
}
