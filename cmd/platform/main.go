package main

import (
	"context"

	platformioc "gitee.com/flycash/webpush-platform/cmd/platform/ioc"
	"gitee.com/flycash/webpush-platform/internal/ioc"
	"github.com/gotomicro/ego"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/server/egovernor"
)

func main() {
	// 先创建 ego 应用，配置在这里加载
	egoApp := ego.New()

	tp := ioc.InitZipkinTracer()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			elog.Error("Shutdown zipkinTracer", elog.FieldErr(err))
		}
	}()

	app := platformioc.InitApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.StartTasks(ctx)

	if err := egoApp.Serve(
		egovernor.Load("server.governor").Build(),
		app.Web,
	).Run(); err != nil {
		elog.Panic("startup", elog.FieldErr(err))
	}
}
