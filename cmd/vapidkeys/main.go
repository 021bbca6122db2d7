package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SherClockHolmes/webpush-go"
	"gopkg.in/yaml.v2"
)

// 生成一对 VAPID 密钥，输出可以直接放进 config.yaml 的 push.webpush 下面
func main() {
	subscriber := flag.String("subscriber", "mailto:admin@example.com", "推送服务联系我们用的邮箱或者网址")
	out := flag.String("out", "", "同时写入这个文件")
	flag.Parse()

	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		fmt.Fprintln(os.Stderr, "生成 VAPID 密钥失败:", err)
		os.Exit(1)
	}

	type webpushConfig struct {
		Subscriber      string `yaml:"subscriber"`
		VAPIDPublicKey  string `yaml:"vapidPublicKey"`
		VAPIDPrivateKey string `yaml:"vapidPrivateKey"`
	}
	data, err := yaml.Marshal(map[string]any{
		"push": map[string]any{
			"webpush": webpushConfig{
				Subscriber:      *subscriber,
				VAPIDPublicKey:  publicKey,
				VAPIDPrivateKey: privateKey,
			},
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "序列化失败:", err)
		os.Exit(1)
	}
	fmt.Print(string(data))

	if *out != "" {
		if err = os.WriteFile(*out, data, 0o600); err != nil {
			fmt.Fprintln(os.Stderr, "写入文件失败:", err)
			os.Exit(1)
		}
	}
	fmt.Fprintln(os.Stderr, "私钥不要泄露")
}
