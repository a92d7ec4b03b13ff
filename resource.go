package judge

import (
	"time"

	"golang.org/x/sys/unix"
)

// cpuTimeUsed 获取评测进程自身的 CPU 时间（用户态 + 内核态）
func cpuTimeUsed() (time.Duration, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano()), nil
}

// fillUsage 填充资源使用情况，失败只影响统计，不影响结论
func fillUsage(r *Result) error {
	cpu, err := cpuTimeUsed()
	if err != nil {
		return err
	}
	r.CPUTimeUsed = cpu

	ms, err := selfMemoryUsage()
	if err != nil {
		return err
	}
	r.MemoryUsed = int64(ms.VMRSS) * 1024
	return nil
}
