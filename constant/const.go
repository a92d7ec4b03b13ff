package constant

import "fmt"

// 评测结果状态，同时也是进程退出码
const (
	// Accepted 输出一致
	Accepted = iota
	// WrongAnswer 内容或结构不一致
	WrongAnswer
	// PresentationError 仅格式不一致
	PresentationError
)

// ExitFatal 致命错误（I/O 失败、配置错误）的退出码，与 WA/PE 区分
const ExitFatal = 101

// SystemErr 系统错误，通常是读取或打开输出流失败
type SystemErr struct {
	Msg string
	Err error
}

func (e *SystemErr) Error() string {
	if e.Err == nil {
		return "system error: " + e.Msg
	}
	return fmt.Sprintf("system error: %s: %v", e.Msg, e.Err)
}

func (e *SystemErr) Unwrap() error {
	return e.Err
}

// ConfigErr 配置错误
type ConfigErr struct {
	Msg string
}

func (e *ConfigErr) Error() string {
	return "config error: " + e.Msg
}

// TimeoutErr 比较超出时间限制
type TimeoutErr struct {
	Msg string
	Err error
}

func (e *TimeoutErr) Error() string {
	return "timeout error: " + e.Msg
}

func (e *TimeoutErr) Unwrap() error {
	return e.Err
}
