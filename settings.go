package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gocrud/injector/catalog"
	"github.com/gocrud/injector/config"
	"github.com/gocrud/injector/cron"
	"github.com/gocrud/injector/database"
	"github.com/gocrud/injector/etcd"
	"github.com/gocrud/injector/logging"
	"github.com/gocrud/injector/mongodb"
	"github.com/gocrud/injector/redis"
	"github.com/gocrud/injector/web"
)

// EnvPrefix 环境变量前缀，CATALOG_HTTP_ADDR 对应 http:addr
const EnvPrefix = "CATALOG_"

// Settings 应用配置，每个字段对应配置文件中的一节
type Settings struct {
	App      AppSettings      `json:"app"`
	Catalog  CatalogSettings  `json:"catalog"`
	Database DatabaseSettings `json:"database"`
	Redis    RedisSettings    `json:"redis"`
	Mongodb  MongoSettings    `json:"mongodb"`
	HTTP     HTTPSettings     `json:"http"`
	Cron     CronSettings     `json:"cron"`
	Logging  logging.Options  `json:"logging"`
	Etcd     EtcdSettings     `json:"etcd"`
}

type AppSettings struct {
	Name            string          `json:"name"`
	ShutdownTimeout config.Duration `json:"shutdownTimeout"`
}

type CatalogSettings struct {
	File              string          `json:"file"`
	ImportOnStart     bool            `json:"importOnStart"`
	ImportSchedule    string          `json:"importSchedule"`
	CachePrefix       string          `json:"cachePrefix"`
	CacheTTL          config.Duration `json:"cacheTTL"`
	ArchiveCollection string          `json:"archiveCollection"`
}

// DatabaseSettings DSN 为空时使用内存存储
type DatabaseSettings struct {
	DSN             string          `json:"dsn"`
	MaxOpenConns    int             `json:"maxOpenConns"`
	MaxIdleConns    int             `json:"maxIdleConns"`
	ConnMaxLifetime config.Duration `json:"connMaxLifetime"`
	SlowThreshold   config.Duration `json:"slowThreshold"`
}

// RedisSettings Addr 为空时不使用缓存
type RedisSettings struct {
	Addr        string          `json:"addr"`
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	DB          int             `json:"db"`
	PoolSize    int             `json:"poolSize"`
	DialTimeout config.Duration `json:"dialTimeout"`
}

// MongoSettings URI 为空时导入报告只保存在内存中
type MongoSettings struct {
	URI            string          `json:"uri"`
	Database       string          `json:"database"`
	ConnectTimeout config.Duration `json:"connectTimeout"`
}

type HTTPSettings struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
	Mode    string `json:"mode"`
}

type CronSettings struct {
	Enabled       bool   `json:"enabled"`
	Location      string `json:"location"`
	EnableSeconds bool   `json:"enableSeconds"`
}

// EtcdSettings Endpoints 非空时从 etcd 读取额外的配置
type EtcdSettings struct {
	Endpoints   []string        `json:"endpoints"`
	Prefix      string          `json:"prefix"`
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	DialTimeout config.Duration `json:"dialTimeout"`
}

// DefaultSettings 返回默认配置：内存存储、无缓存、HTTP 监听 :8080、每小时导入一次
func DefaultSettings() Settings {
	return Settings{
		App: AppSettings{
			Name:            "catalog",
			ShutdownTimeout: config.Duration(10 * time.Second),
		},
		Catalog: CatalogSettings{
			File:              "products.csv",
			ImportOnStart:     true,
			ImportSchedule:    "@every 1h",
			CachePrefix:       "catalog:",
			CacheTTL:          config.Duration(10 * time.Minute),
			ArchiveCollection: "imports",
		},
		Database: DatabaseSettings{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: config.Duration(time.Hour),
			SlowThreshold:   config.Duration(200 * time.Millisecond),
		},
		Redis: RedisSettings{
			DialTimeout: config.Duration(5 * time.Second),
		},
		Mongodb: MongoSettings{
			Database:       "catalog",
			ConnectTimeout: config.Duration(10 * time.Second),
		},
		HTTP: HTTPSettings{
			Enabled: true,
			Addr:    ":8080",
			Mode:    "release",
		},
		Cron: CronSettings{
			Enabled: true,
		},
		Logging: logging.Options{
			Level:  "info",
			Format: "text",
		},
		Etcd: EtcdSettings{
			Prefix:      "/catalog",
			DialTimeout: config.Duration(5 * time.Second),
		},
	}
}

// LoadSettings 按顺序合并配置源：默认值、配置文件、etcd、.env、环境变量。
// path 为空时跳过配置文件；.env 在配置文件所在目录（或当前目录）中查找，可以不存在。
func LoadSettings(path string) (Settings, error) {
	envFile := ".env"
	if path != "" {
		envFile = filepath.Join(filepath.Dir(path), ".env")
	}

	cfg, err := newConfigBuilder(path, envFile, nil).Build()
	if err != nil {
		return Settings{}, err
	}
	settings, err := bindSettings(cfg)
	if err != nil {
		return Settings{}, err
	}
	if len(settings.Etcd.Endpoints) == 0 {
		return settings, nil
	}

	// etcd 的地址本身来自本地配置，因此需要第二轮加载
	etcdOpts := settings.etcdSource()
	cfg, err = newConfigBuilder(path, envFile, &etcdOpts).Build()
	if err != nil {
		return Settings{}, err
	}
	return bindSettings(cfg)
}

func newConfigBuilder(path, envFile string, etcdOpts *config.EtcdOptions) *config.ConfigurationBuilder {
	b := config.NewConfigurationBuilder()
	if path != "" {
		b.AddFile(path)
	}
	if etcdOpts != nil {
		b.AddEtcd(*etcdOpts)
	}
	return b.AddDotEnv(envFile, EnvPrefix, true).
		AddEnvironmentVariables(EnvPrefix)
}

func bindSettings(cfg config.Configuration) (Settings, error) {
	settings := DefaultSettings()
	if err := cfg.Bind("", &settings); err != nil {
		return Settings{}, fmt.Errorf("app: invalid settings: %w", err)
	}
	return settings, nil
}

func (s Settings) etcdSource() config.EtcdOptions {
	opts := etcd.NewDefaultOptions()
	opts.Endpoints = s.Etcd.Endpoints
	opts.Username = s.Etcd.Username
	opts.Password = s.Etcd.Password
	if s.Etcd.DialTimeout > 0 {
		opts.DialTimeout = s.Etcd.DialTimeout.Std()
	}
	return config.EtcdOptions{Options: opts, Prefix: s.Etcd.Prefix}
}

func (s Settings) catalogOptions() catalog.Options {
	return catalog.Options{
		File:              s.Catalog.File,
		CachePrefix:       s.Catalog.CachePrefix,
		CacheTTL:          s.Catalog.CacheTTL.Std(),
		ArchiveCollection: s.Catalog.ArchiveCollection,
	}
}

func (s Settings) databaseOptions() database.Options {
	opts := database.NewDefaultOptions()
	opts.DSN = s.Database.DSN
	opts.MaxOpenConns = s.Database.MaxOpenConns
	opts.MaxIdleConns = s.Database.MaxIdleConns
	opts.ConnMaxLifetime = s.Database.ConnMaxLifetime.Std()
	opts.SlowThreshold = s.Database.SlowThreshold.Std()
	return opts
}

func (s Settings) redisOptions() redis.Options {
	opts := redis.NewDefaultOptions()
	opts.Addr = s.Redis.Addr
	opts.Username = s.Redis.Username
	opts.Password = s.Redis.Password
	opts.DB = s.Redis.DB
	opts.PoolSize = s.Redis.PoolSize
	if s.Redis.DialTimeout > 0 {
		opts.DialTimeout = s.Redis.DialTimeout.Std()
	}
	return opts
}

func (s Settings) mongoOptions() mongodb.Options {
	opts := mongodb.NewDefaultOptions()
	opts.URI = s.Mongodb.URI
	if s.Mongodb.Database != "" {
		opts.Database = s.Mongodb.Database
	}
	if s.Mongodb.ConnectTimeout > 0 {
		opts.ConnectTimeout = s.Mongodb.ConnectTimeout.Std()
	}
	opts.AppName = s.App.Name
	return opts
}

func (s Settings) webOptions() web.Options {
	return web.Options{Addr: s.HTTP.Addr, Mode: s.HTTP.Mode}
}

func (s Settings) cronOptions() cron.Options {
	return cron.Options{Location: s.Cron.Location, EnableSeconds: s.Cron.EnableSeconds}
}
