package cron

import log "log/slog"

// InitCron 注册任务，先预热一次热门标签缓存，再启动调度
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("定时任务注册失败", "spec", mgr.popularTagsSpec, "err", err)
		return err
	}
	mgr.warmUp()
	mgr.Start()
	return nil
}
