package cron

import (
	"Devflow/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultPopularTagsSpec = "0 */10 * * * *"

type Manager struct {
	engine          *cron.Cron
	popularTagsSpec string
	popularTagsJob  *job.PopularTagsJob
}

// NewCronManager spec 为带秒的 cron 表达式，为空时每十分钟执行一次
func NewCronManager(popularTagsSpec string, popularTagsJob *job.PopularTagsJob) *Manager {
	if popularTagsSpec == "" {
		popularTagsSpec = defaultPopularTagsSpec
	}
	return &Manager{
		engine:          cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		popularTagsSpec: popularTagsSpec,
		popularTagsJob:  popularTagsJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.popularTagsSpec, s.popularTagsJob); err != nil {
		return err
	}
	return nil
}

// warmUp 启动时立即执行一次，避免首个周期内缓存为空
func (s *Manager) warmUp() {
	if s.popularTagsJob == nil {
		return
	}
	s.popularTagsJob.Run()
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "jobs", len(s.engine.Entries()))
	s.engine.Start()
}

// Stop 停止调度并等待运行中的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
