package catalog

import (
	"errors"
	"time"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// Options catalog 配置段
type Options struct {
	// File 商品文件路径
	File string
	// CachePrefix redis 键前缀
	CachePrefix string
	// CacheTTL 类别缓存的过期时间，0 表示不过期
	CacheTTL time.Duration
	// ArchiveCollection 导入报告集合名
	ArchiveCollection string
}

// Infrastructure 已经打开的外部资源。为 nil 的资源使用进程内实现代替。
type Infrastructure struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Mongo  *mongo.Database
	Logger logging.Logger
}

// Register 把 catalog 的所有抽象绑定到 b。
// 选择哪种实现在这里按 infra 决定，绑定表在容器构建后不可变。
func Register(b *di.Builder, opts Options, infra Infrastructure) error {
	logger := infra.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	errs := []error{
		di.Bind[FileReader, *LineFileReader](b, func() (*LineFileReader, error) {
			return NewLineFileReader(opts.File), nil
		}),
		di.Bind[ProductParser, *CSVParser](b, func() (*CSVParser, error) {
			return NewCSVParser(), nil
		}),
		bindStore(b, infra.DB),
		bindCache(b, infra.Redis, opts),
		bindArchive(b, infra.Mongo, opts),
		di.Bind[ProductService, *DefaultProductService](b,
			func() (*DefaultProductService, error) { return NewDefaultProductService(logger), nil },
			di.Slot(func(s *DefaultProductService, r FileReader) { s.reader = r }),
			di.Slot(func(s *DefaultProductService, p ProductParser) { s.parser = p }),
			di.Slot(func(s *DefaultProductService, st ProductStore) { s.store = st }),
			di.Slot(func(s *DefaultProductService, c ProductCache) { s.cache = c }),
		),
		di.Bind[Importer, *ArchivingImporter](b,
			func() (*ArchivingImporter, error) { return NewArchivingImporter(logger), nil },
			di.Slot(func(im *ArchivingImporter, s ProductService) { im.service = s }),
			di.Slot(func(im *ArchivingImporter, a ImportArchive) { im.archive = a }),
		),
	}
	return errors.Join(errs...)
}

func bindStore(b *di.Builder, db *gorm.DB) error {
	if db == nil {
		return di.Bind[ProductStore, *MemoryStore](b, func() (*MemoryStore, error) {
			return NewMemoryStore(), nil
		})
	}
	return di.Bind[ProductStore, *SQLStore](b, func() (*SQLStore, error) {
		return NewSQLStore(db)
	})
}

func bindCache(b *di.Builder, client *redis.Client, opts Options) error {
	if client == nil {
		return di.Bind[ProductCache, *NoopCache](b, di.New[NoopCache])
	}
	return di.Bind[ProductCache, *RedisCache](b, func() (*RedisCache, error) {
		return NewRedisCache(client, opts.CachePrefix, opts.CacheTTL), nil
	})
}

func bindArchive(b *di.Builder, db *mongo.Database, opts Options) error {
	if db == nil {
		return di.Bind[ImportArchive, *NoopArchive](b, di.New[NoopArchive])
	}
	return di.Bind[ImportArchive, *MongoArchive](b, func() (*MongoArchive, error) {
		return NewMongoArchive(db, opts.ArchiveCollection)
	})
}
