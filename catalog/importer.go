package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/gocrud/injector/di"
	"github.com/gocrud/injector/logging"
	"github.com/google/uuid"
)

// ArchivingImporter 给每次导入分配批次号，执行 ProductService.Import 并归档报告。
// 同一时间只允许一个导入。
type ArchivingImporter struct {
	di.Component
	service ProductService
	archive ImportArchive
	logger  logging.Logger
	running sync.Mutex
	now     func() time.Time
}

// NewArchivingImporter 创建导入器，依赖槽稍后由容器填充
func NewArchivingImporter(logger logging.Logger) *ArchivingImporter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ArchivingImporter{logger: logger.WithCategory("import"), now: time.Now}
}

// Run 执行一次导入。导入失败时报告仍会归档，并返回原始错误。
func (im *ArchivingImporter) Run(ctx context.Context, trigger string) (ImportReport, error) {
	if !im.running.TryLock() {
		return ImportReport{}, ErrImportRunning
	}
	defer im.running.Unlock()

	report := ImportReport{
		BatchID:   uuid.NewString(),
		Trigger:   trigger,
		StartedAt: im.now().UTC(),
	}
	logger := im.logger.WithFields(logging.F("batch", report.BatchID), logging.F("trigger", trigger))
	logger.Info("Import started")

	result, runErr := im.service.Import(ctx)
	report.FinishedAt = im.now().UTC()
	report.Imported = result.Imported
	report.Skipped = result.Skipped
	report.Errors = result.Errors
	if runErr != nil {
		report.Failure = runErr.Error()
		logger.Error("Import failed", logging.Err(runErr))
	} else {
		logger.Info("Import finished",
			logging.F("imported", report.Imported),
			logging.F("skipped", report.Skipped),
			logging.F("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	}

	// 归档失败不覆盖导入本身的错误
	if err := im.archive.Record(context.WithoutCancel(ctx), report); err != nil {
		logger.Warn("Import report not archived", logging.Err(err))
	}
	return report, runErr
}

func (im *ArchivingImporter) Last(ctx context.Context) (ImportReport, bool, error) {
	return im.archive.Latest(ctx)
}
