// Package app 组装商品目录应用：读取配置，打开基础设施，
// 通过 di 容器装配 catalog 的各个组件，然后运行 Web 主机和定时导入。
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocrud/injector/catalog"
	"github.com/gocrud/injector/cron"
	"github.com/gocrud/injector/database"
	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/hosting"
	"github.com/gocrud/injector/logging"
	"github.com/gocrud/injector/mongodb"
	"github.com/gocrud/injector/redis"
	"github.com/gocrud/injector/web"
)

const defaultShutdownTimeout = 10 * time.Second

// Option 在容器构建之前修改 Application
type Option func(a *Application) error

// WithLoggerFactory 使用外部的日志工厂，代替 Settings.Logging。
// 外部工厂由调用方关闭。
func WithLoggerFactory(factory logging.LoggerFactory) Option {
	return func(a *Application) error {
		if factory == nil {
			return errors.New("app: logger factory is nil")
		}
		a.loggers = factory
		a.ownsLoggers = false
		return nil
	}
}

// WithBindings 在 catalog 之外注册额外的绑定
func WithBindings(register func(b *di.Builder) error) Option {
	return func(a *Application) error {
		a.registrations = append(a.registrations, register)
		return nil
	}
}

// WithHostedService 添加一个与 Web 主机和定时任务一起运行的托管服务
func WithHostedService(service hosting.HostedService) Option {
	return func(a *Application) error {
		a.hosted = append(a.hosted, service)
		return nil
	}
}

// WithControllers 在 Web 主机上挂载额外的控制器
func WithControllers(controllers ...web.Controller) Option {
	return func(a *Application) error {
		a.controllers = append(a.controllers, controllers...)
		return nil
	}
}

// Application 已装配好的应用
type Application struct {
	Settings  Settings
	Lifecycle *Lifecycle

	loggers       logging.LoggerFactory
	ownsLoggers   bool
	logger        logging.Logger
	registrations []func(b *di.Builder) error
	hosted        []hosting.HostedService
	controllers   []web.Controller
	container     *di.Container
}

// New 打开配置中启用的基础设施并构建容器。
// 失败时已经打开的资源会被关闭。
func New(ctx context.Context, settings Settings, opts ...Option) (*Application, error) {
	a := &Application{
		Settings:    settings,
		Lifecycle:   NewLifecycle(),
		ownsLoggers: true,
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.loggers == nil {
		factory, err := logging.NewFactory(settings.Logging)
		if err != nil {
			return nil, fmt.Errorf("app: logging: %w", err)
		}
		a.loggers = factory
	}
	if a.ownsLoggers {
		// 第一个注册，最后一个执行
		a.Lifecycle.OnStop(func(context.Context) error { return a.loggers.Close() })
	}
	a.logger = a.loggers.CreateLogger(settings.App.Name)

	infra, err := a.openInfrastructure(ctx)
	if err != nil {
		return nil, errors.Join(err, a.Lifecycle.Stop(context.Background()))
	}

	container, err := a.buildContainer(infra)
	if err != nil {
		return nil, errors.Join(err, a.Lifecycle.Stop(context.Background()))
	}
	a.container = container
	return a, nil
}

// Container 返回应用的容器
func (a *Application) Container() *di.Container {
	return a.container
}

// Logger 返回应用日志
func (a *Application) Logger() logging.Logger {
	return a.logger
}

// Close 关闭基础设施和日志。可以重复调用。
func (a *Application) Close(ctx context.Context) error {
	return a.Lifecycle.Stop(ctx)
}

func (a *Application) openInfrastructure(ctx context.Context) (catalog.Infrastructure, error) {
	infra := catalog.Infrastructure{Logger: a.logger}
	s := a.Settings

	if s.Database.DSN != "" {
		db, err := database.Open(s.databaseOptions(), a.loggers.CreateLogger("database"))
		if err != nil {
			return infra, err
		}
		a.Lifecycle.OnStop(func(context.Context) error { return database.Close(db) })
		infra.DB = db
	}

	if s.Redis.Addr != "" {
		client, err := redis.Open(ctx, s.redisOptions(), a.loggers.CreateLogger("redis"))
		if err != nil {
			return infra, err
		}
		a.Lifecycle.OnStop(func(context.Context) error { return client.Close() })
		infra.Redis = client
	}

	if s.Mongodb.URI != "" {
		client, db, err := mongodb.Connect(ctx, s.mongoOptions(), a.loggers.CreateLogger("mongodb"))
		if err != nil {
			return infra, err
		}
		a.Lifecycle.OnStop(func(ctx context.Context) error { return client.Disconnect(ctx) })
		infra.Mongo = db
	}

	a.logger.Debug("Infrastructure opened",
		logging.F("sql", infra.DB != nil),
		logging.F("redis", infra.Redis != nil),
		logging.F("mongodb", infra.Mongo != nil))
	return infra, nil
}

func (a *Application) buildContainer(infra catalog.Infrastructure) (*di.Container, error) {
	b := di.NewBuilder(di.WithLogger(a.loggers.CreateLogger("di")))
	if err := catalog.Register(b, a.Settings.catalogOptions(), infra); err != nil {
		return nil, fmt.Errorf("app: register catalog: %w", err)
	}
	for _, register := range a.registrations {
		if err := register(b); err != nil {
			return nil, fmt.Errorf("app: register bindings: %w", err)
		}
	}
	return b.Build()
}

// Run 执行启动导入，然后运行托管服务直到 ctx 取消或某个服务失败，最后关闭所有资源
func (a *Application) Run(ctx context.Context) error {
	runErr := a.run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	return errors.Join(runErr, a.Close(stopCtx))
}

func (a *Application) run(ctx context.Context) error {
	importer, err := di.Resolve[catalog.Importer](a.container)
	if err != nil {
		return err
	}
	service, err := di.Resolve[catalog.ProductService](a.container)
	if err != nil {
		return err
	}

	if a.Settings.Catalog.ImportOnStart {
		a.Lifecycle.OnStart(func(ctx context.Context) error {
			// 启动时文件缺失或损坏不阻止服务启动
			if _, err := importer.Run(ctx, "startup"); err != nil {
				a.logger.Warn("Initial import failed", logging.Err(err))
			}
			return nil
		})
	}
	if err := a.Lifecycle.Start(ctx); err != nil {
		return err
	}

	manager := hosting.NewHostedServiceManager(a.loggers.CreateLogger("hosting"))
	if a.Settings.HTTP.Enabled {
		host, err := a.newWebHost(service, importer)
		if err != nil {
			return err
		}
		manager.Add(host)
	}
	if a.Settings.Cron.Enabled && a.Settings.Catalog.ImportSchedule != "" {
		scheduler, err := a.newScheduler(importer)
		if err != nil {
			return err
		}
		manager.Add(scheduler)
	}
	for _, svc := range a.hosted {
		manager.Add(svc)
	}

	if manager.Len() == 0 {
		a.logger.Info("No hosted services enabled, exiting")
		return nil
	}
	return manager.Run(ctx, a.shutdownTimeout())
}

func (a *Application) newWebHost(service catalog.ProductService, importer catalog.Importer) (*web.Host, error) {
	store, err := di.Resolve[catalog.ProductStore](a.container)
	if err != nil {
		return nil, err
	}

	return web.NewBuilder(a.Settings.webOptions()).
		UseLogger(a.loggers.CreateLogger("web")).
		AddControllers(catalog.NewHandler(service, importer)).
		AddControllers(a.controllers...).
		Get("/healthz", healthz(store)).
		Get("/debug/bindings", debugBindings(a.container)).
		Build(), nil
}

func (a *Application) newScheduler(importer catalog.Importer) (*cron.Service, error) {
	scheduler, err := cron.New(a.Settings.cronOptions(), a.loggers.CreateLogger("cron"))
	if err != nil {
		return nil, err
	}
	err = scheduler.AddJob(a.Settings.Catalog.ImportSchedule, "import", func(ctx context.Context) error {
		_, err := importer.Run(ctx, "cron")
		if errors.Is(err, catalog.ErrImportRunning) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return scheduler, nil
}

func (a *Application) shutdownTimeout() time.Duration {
	if d := a.Settings.App.ShutdownTimeout.Std(); d > 0 {
		return d
	}
	return defaultShutdownTimeout
}
