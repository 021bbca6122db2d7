package ioc

import (
	"context"
	"time"

	"github.com/ego-component/eetcd"
	"github.com/gotomicro/ego/core/econf"
)

// InitEtcdClient 连本地 etcd，连不上返回 nil
func InitEtcdClient() *eetcd.Component {
	econf.Set("etcd", map[string]any{
		"addrs":          []string{"127.0.0.1:2379"},
		"secure":         false,
		"connectTimeout": "1s",
	})
	client := eetcd.Load("etcd").Build()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := client.Get(ctx, "health"); err != nil {
		return nil
	}
	return client
}
