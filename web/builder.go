package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/injector/logging"
)

// Controller 控制器接口，负责注册自己的路由
type Controller interface {
	MountRoutes(router gin.IRouter)
}

// Options Web 主机配置
type Options struct {
	// Addr 监听地址，例如 ":8080"；":0" 表示随机端口
	Addr string
	// Mode gin 模式：debug | release | test
	Mode string
}

// Builder Web 主机构建器（基于 Gin）
type Builder struct {
	logger      logging.Logger
	addr        string
	engine      *gin.Engine
	controllers []Controller
}

// NewBuilder 创建 Web 构建器
func NewBuilder(opts Options) *Builder {
	mode := opts.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Builder{
		logger: logging.Nop(),
		addr:   addr,
		engine: engine,
	}
}

// UseLogger 设置日志记录器，并启用请求日志中间件
func (b *Builder) UseLogger(logger logging.Logger) *Builder {
	b.logger = logger.WithCategory("web")
	b.engine.Use(RequestLogger(b.logger))
	return b
}

// Use 使用全局中间件
func (b *Builder) Use(middleware ...gin.HandlerFunc) *Builder {
	b.engine.Use(middleware...)
	return b
}

// AddControllers 注册控制器，路由在 Build 时挂载
func (b *Builder) AddControllers(controllers ...Controller) *Builder {
	b.controllers = append(b.controllers, controllers...)
	return b
}

// Get 注册 GET 路由
func (b *Builder) Get(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.GET(path, handlers...)
	return b
}

// Post 注册 POST 路由
func (b *Builder) Post(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.POST(path, handlers...)
	return b
}

// Group 创建路由组
func (b *Builder) Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return b.engine.Group(relativePath, handlers...)
}

// NoRoute 处理 404
func (b *Builder) NoRoute(handlers ...gin.HandlerFunc) *Builder {
	b.engine.NoRoute(handlers...)
	return b
}

// Engine 获取 Gin 引擎（用于高级定制）
func (b *Builder) Engine() *gin.Engine {
	return b.engine
}

// Build 挂载控制器路由并构建 Web 主机
func (b *Builder) Build() *Host {
	for _, ctrl := range b.controllers {
		ctrl.MountRoutes(b.engine)
		b.logger.Debug("Mapped controller routes", logging.F("controller", typeName(ctrl)))
	}

	return &Host{
		addr:   b.addr,
		engine: b.engine,
		server: &http.Server{
			Addr:    b.addr,
			Handler: b.engine,
		},
		logger: b.logger,
		ready:  make(chan struct{}),
	}
}
