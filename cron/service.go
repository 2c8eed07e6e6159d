package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/injector/logging"
	"github.com/robfig/cron/v3"
)

// Job 定时任务处理函数。ctx 在服务停止时取消。
type Job func(ctx context.Context) error

// jobDefinition 任务定义
type jobDefinition struct {
	spec    string
	name    string
	handler Job
}

// Options Cron 服务配置选项
type Options struct {
	// Location 时区，默认 UTC
	Location string
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// EnableCronLogger 是否启用 cron 库的内部调度日志
	EnableCronLogger bool
}

// Service Cron 定时任务托管服务，实现 hosting.HostedService
type Service struct {
	cron    *cron.Cron
	parser  cron.Parser
	logger  logging.Logger
	mu      sync.RWMutex
	jobs    map[string]cron.EntryID // 任务名称到任务ID的映射
	jobDefs []jobDefinition
	ctx     context.Context
	cancel  context.CancelFunc
}

// New 创建 Cron 托管服务
func New(opts Options, logger logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithCategory("cron")

	loc := time.UTC
	if opts.Location != "" {
		l, err := time.LoadLocation(opts.Location)
		if err != nil {
			return nil, fmt.Errorf("cron: invalid location %q: %w", opts.Location, err)
		}
		loc = l
	}

	cronOpts := []cron.Option{
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(newCronLogger(logger))),
	}
	if opts.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(logger)))
	}
	fields := cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor
	if opts.EnableSeconds {
		fields |= cron.Second
	}
	parser := cron.NewParser(fields)
	cronOpts = append(cronOpts, cron.WithParser(parser))

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cron:   cron.New(cronOpts...),
		parser: parser,
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Name 用于托管服务日志
func (s *Service) Name() string {
	return "cron"
}

// AddJob 添加定时任务。
// spec: cron 表达式，如 "*/5 * * * *" (每5分钟) 或 "@every 1h"
// 表达式在这里校验，任务在 Start 时注册。
func (s *Service) AddJob(spec, name string, handler Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("cron: job '%s' has no handler", name)
	}
	for _, def := range s.jobDefs {
		if def.name == name {
			return fmt.Errorf("cron: job '%s' already added", name)
		}
	}
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("cron: invalid spec for job '%s': %w", name, err)
	}

	s.jobDefs = append(s.jobDefs, jobDefinition{spec: spec, name: name, handler: handler})
	return nil
}

// Jobs 返回已注册任务的名称和下一次执行时间（Start 之后有效）
func (s *Service) Jobs() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]time.Time, len(s.jobs))
	for name, id := range s.jobs {
		result[name] = s.cron.Entry(id).Next
	}
	return result
}

// RunNow 立即同步执行一个任务
func (s *Service) RunNow(name string) error {
	s.mu.RLock()
	var handler Job
	for _, def := range s.jobDefs {
		if def.name == name {
			handler = def.handler
		}
	}
	s.mu.RUnlock()

	if handler == nil {
		return fmt.Errorf("cron: job '%s' not found", name)
	}
	return s.run(name, handler)
}

func (s *Service) run(name string, handler Job) error {
	start := time.Now()
	s.logger.Info(fmt.Sprintf("Cron job '%s' started", name))

	if err := handler(s.ctx); err != nil {
		s.logger.Error(fmt.Sprintf("Cron job '%s' failed", name),
			logging.Err(err), logging.F("elapsed", time.Since(start)))
		return err
	}

	s.logger.Info(fmt.Sprintf("Cron job '%s' completed", name), logging.F("elapsed", time.Since(start)))
	return nil
}

// Start 注册所有任务并启动调度器，阻塞到 ctx 取消
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	for _, def := range s.jobDefs {
		def := def
		entryID, err := s.cron.AddFunc(def.spec, func() { _ = s.run(def.name, def.handler) })
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to add cron job '%s': %w", def.name, err)
		}
		s.jobs[def.name] = entryID
		s.logger.Info(fmt.Sprintf("Cron job '%s' registered with spec '%s'", def.name, def.spec))
	}
	s.mu.Unlock()

	s.cron.Start()
	<-ctx.Done()
	return ctx.Err()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("CronService stopping")
	s.cancel()

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
