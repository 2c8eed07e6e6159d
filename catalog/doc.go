// Package catalog 是一个商品目录应用，用来演示 di 容器的实际用法。
//
// 商品从文本文件导入（每行 id,name,category,description,price），
// 存入 sqlite 或内存，按类别查询时经过 redis 缓存，每次导入的报告写入 MongoDB。
// 每个协作者都是一个接口，实现通过 Register 绑定到容器：
//
//	FileReader     -> *LineFileReader
//	ProductParser  -> *CSVParser
//	ProductStore   -> *SQLStore | *MemoryStore
//	ProductCache   -> *RedisCache | *NoopCache
//	ImportArchive  -> *MongoArchive | *NoopArchive
//	ProductService -> *DefaultProductService
//	Importer       -> *ArchivingImporter
package catalog
