package cronrunner

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner 带秒级表达式的定时器。上一轮未结束时跳过本次触发
type Runner struct {
	cron    *cron.Cron
	logger  *logrus.Logger
	baseCtx context.Context
}

func New(logger *logrus.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.VerbosePrintfLogger(logger))),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

// RunNow 立即异步触发一次已注册的任务，同样经过 SkipIfStillRunning，不会与定时触发重叠
func (r *Runner) RunNow(id cron.EntryID) bool {
	entry := r.cron.Entry(id)
	if !entry.Valid() {
		return false
	}
	go entry.WrappedJob.Run()
	return true
}

func (r *Runner) Start() {
	r.logger.Info("定时任务已启动")
	r.cron.Start()
}

// Stop 等待正在执行的任务结束
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("定时任务已停止")
}
