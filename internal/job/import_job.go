package job

import (
	"context"
	log "log/slog"
	"time"

	"github.com/haruhisa-hosei/hosei-content-api/internal/pkg/logger"
	"github.com/haruhisa-hosei/hosei-content-api/internal/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImportJob 旧サイトCSVの定時取り込み。cron.Job を実装する
type ImportJob struct {
	importSvc service.ImportService
}

func NewImportJob(importSvc service.ImportService) *ImportJob {
	return &ImportJob{
		importSvc: importSvc,
	}
}

func (s *ImportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = context.WithValue(ctx, logger.TraceIDKey, "cron-"+uuid.NewString())

	result, err := s.importSvc.Run(ctx)
	if err != nil {
		// 手動実行と重なったときのロック競合は正常系
		if errors.Is(err, service.ErrImportRunning) {
			log.InfoContext(ctx, "取り込みは実行中のためスキップ")
			return
		}
		log.ErrorContext(ctx, "定時取り込みに失敗", "err", err)
		return
	}

	log.InfoContext(ctx, "定時取り込み完了",
		"scanned", result.Scanned, "inserted", result.Inserted, "ignored", result.Ignored)
}
