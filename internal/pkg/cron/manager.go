package cron

import (
	log "log/slog"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"
	"github.com/haruhisa-hosei/hosei-content-api/internal/job"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine    *cron.Cron
	importJob *job.ImportJob
}

func NewCronManager(importJob *job.ImportJob) *Manager {
	return &Manager{
		engine:    cron.New(cron.WithSeconds()),
		importJob: importJob,
	}
}

// RegisterJobs 定時ジョブを登録する。スケジュールが空なら何も登録しない
func (s *Manager) RegisterJobs() error {
	if spec := config.Cfg.Import.Cron; spec != "" {
		if _, err := s.engine.AddJob(spec, s.importJob); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定時ジョブエンジン起動")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定時ジョブエンジン停止")
	s.engine.Stop()
}
