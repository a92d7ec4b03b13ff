package judge

import "time"

// Result 表示一次比较的结果
type Result struct {
	// 比较结论
	Verdict Verdict
	// 比较方式
	Mode Mode
	// 标准输出已读取的字节数
	StdBytes int64
	// 用户输出已读取的字节数
	UserBytes int64
	// normal 模式下整块跳过的字节数
	SkippedBytes int64
	// 标准输出是否为 zstd 压缩
	StdCompressed bool
	// 比较耗时
	Elapsed time.Duration
	// 评测进程的 CPU 时间
	CPUTimeUsed time.Duration
	// 评测进程的常驻内存（字节）
	MemoryUsed int64
}

// NewResult 创建一个新的比较结果
func NewResult(mode Mode) *Result {
	return &Result{Mode: mode}
}

// IsSuccess 检查是否通过
func (r *Result) IsSuccess() bool {
	return r.Verdict == Accepted
}

// GetStatus 获取评测状态
func (r *Result) GetStatus() string {
	switch r.Verdict {
	case Accepted:
		return "Accepted"
	case PresentationError:
		return "Presentation Error"
	}
	return "Wrong Answer"
}
