package ioc

import (
	"context"
	"strconv"
	"time"

	"gitee.com/flycash/webpush-platform/internal/event/dispatched"
	"gitee.com/flycash/webpush-platform/internal/service/dispatch"
	"gitee.com/flycash/webpush-platform/internal/service/provider"
	"gitee.com/flycash/webpush-platform/internal/service/subscription"
	"github.com/ego-component/eetcd"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	clientv3 "go.etcd.io/etcd/client/v3"
)

func InitDispatchService(
	subSvc subscription.Service,
	p provider.Provider,
	producer dispatched.EventProducer,
) dispatch.Service {
	type EtcdConfig struct {
		Enabled        bool   `yaml:"enabled"`
		ConcurrencyKey string `yaml:"concurrencyKey"`
	}
	type Config struct {
		Concurrency int           `yaml:"concurrency"`
		SendTimeout time.Duration `yaml:"sendTimeout"`
		Etcd        EtcdConfig    `yaml:"etcd"`
	}
	var cfg Config
	if err := econf.UnmarshalKey("dispatch", &cfg); err != nil {
		panic(err)
	}

	svc := dispatch.NewService(subSvc, p, producer, dispatch.Config{
		Concurrency: cfg.Concurrency,
		SendTimeout: cfg.SendTimeout,
	})
	if cfg.Etcd.Enabled {
		watchConcurrency(InitEtcdClient(), cfg.Etcd.ConcurrencyKey, svc)
	}
	return svc
}

func InitEtcdClient() *eetcd.Component {
	return eetcd.Load("etcd").Build()
}

// watchConcurrency 处理并发度变更事件
func watchConcurrency(etcdClient *eetcd.Component, key string, svc dispatch.Service) {
	go func() {
		watchChan := etcdClient.Watch(context.Background(), key)
		for watchResp := range watchChan {
			for _, event := range watchResp.Events {
				if event.Type != clientv3.EventTypePut {
					continue
				}
				n, err := strconv.Atoi(string(event.Kv.Value))
				if err != nil {
					elog.Warn("并发度配置非法",
						elog.String("key", key),
						elog.String("value", string(event.Kv.Value)))
					continue
				}
				svc.UpdateConcurrency(n)
			}
		}
	}()
}
