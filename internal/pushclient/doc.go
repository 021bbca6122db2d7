// Package pushclient 设备侧的通知控制器，平台本身不启动它。
//
// 由设备宿主（浏览器扩展、桌面壳、模拟器）嵌入使用：宿主把系统通知事件转成
// OnPush / OnAction / OnClose / OnTimeout 调用，实现 Presenter 和 WindowManager
// 负责展示和开窗，网络恢复时调用 Sync 重放离线动作。
// 后台动作通过 ServerAPI 回调平台的 /api/notifications 接口，离线时落到 Queue，
// 持久化可以用 NewSQLiteQueue。
package pushclient
