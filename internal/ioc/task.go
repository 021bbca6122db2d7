package ioc

import (
	"context"

	"gitee.com/flycash/webpush-platform/internal/event/dispatched"
	"github.com/gotomicro/ego/server/egin"
)

// Task 随应用启动的后台任务
type Task interface {
	Start(ctx context.Context)
}

type App struct {
	Web   *egin.Component
	Tasks []Task
}

func (a *App) StartTasks(ctx context.Context) {
	for _, t := range a.Tasks {
		t.Start(ctx)
	}
}

func InitTasks(c *dispatched.EventConsumer) []Task {
	return []Task{
		c,
	}
}
