package pushclient

import (
	"gitee.com/flycash/webpush-platform/internal/domain"
)

// Behavior 点击按钮之后的行为
type Behavior uint8

const (
	// BehaviorWindowFocus 聚焦已经打开的页面，没有就打开新窗口
	BehaviorWindowFocus Behavior = iota + 1
	// BehaviorBackgroundCall 不打开窗口，直接调用服务端
	BehaviorBackgroundCall
	// BehaviorNoop 直接关闭
	BehaviorNoop
)

func (b Behavior) String() string {
	switch b {
	case BehaviorWindowFocus:
		return "window"
	case BehaviorBackgroundCall:
		return "background"
	case BehaviorNoop:
		return "noop"
	default:
		return "unknown"
	}
}

const replyURL = "/reply"

// Resolution 某个按钮对应的具体行为
type Resolution struct {
	Behavior Behavior
	// URL 窗口行为要打开的地址
	URL string
	// Kind 后台行为对应的服务端动作
	Kind domain.BackgroundActionKind
}

// Resolve 按钮到行为是静态映射，空字符串代表点击通知本身
func Resolve(action string, p domain.NotificationPayload) Resolution {
	switch action {
	case "open", "view":
		return Resolution{Behavior: BehaviorWindowFocus, URL: urlOr(p.DataString("url"), DefaultURL)}
	case "reply":
		return Resolution{Behavior: BehaviorWindowFocus, URL: urlOr(p.DataString("replyUrl"), replyURL)}
	case "archive":
		return Resolution{Behavior: BehaviorBackgroundCall, Kind: domain.BackgroundActionArchive}
	case "like":
		return Resolution{Behavior: BehaviorBackgroundCall, Kind: domain.BackgroundActionLike}
	case "close", "dismiss":
		return Resolution{Behavior: BehaviorNoop}
	default:
		return Resolution{Behavior: BehaviorWindowFocus, URL: urlOr(p.DataString("url"), DefaultURL)}
	}
}

func urlOr(u, def string) string {
	if u == "" {
		return def
	}
	return u
}
