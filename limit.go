package judge

import (
	"fmt"
	"time"

	seccomp "github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"
)

// Limit 限制评测进程自身的资源
type Limit struct {
	CPU    time.Duration
	Memory int64 // bytes
}

// Harden applies rlimits to the current process and then blocks the denied
// syscalls with EPERM. Both are irreversible for the lifetime of the process.
func Harden(limit *Limit, denied []string) error {
	if limit != nil {
		if err := setLimits(limit); err != nil {
			return err
		}
	}
	if len(denied) > 0 {
		if err := applySeccomp(denied); err != nil {
			return err
		}
	}
	return nil
}

func setLimits(limit *Limit) error {
	var rl unix.Rlimit

	// cpu time limit (s), rounded up
	if limit.CPU > 0 {
		rl.Cur = uint64((limit.CPU + time.Second - 1) / time.Second)
		rl.Max = rl.Cur + 1
		if err := unix.Setrlimit(unix.RLIMIT_CPU, &rl); err != nil {
			return fmt.Errorf("failed to set cpu limit: %w", err)
		}
	}

	// address space limit (B)
	if limit.Memory > 0 {
		rl.Cur = uint64(limit.Memory)
		rl.Max = rl.Cur
		if err := unix.Setrlimit(unix.RLIMIT_AS, &rl); err != nil {
			return fmt.Errorf("failed to set memory limit: %w", err)
		}
	}

	return nil
}

// syscallRule 将 syscall 名称解析为 seccomp 规则
func syscallRule(names []string) ([]seccomp.ScmpSyscall, error) {
	calls := make([]seccomp.ScmpSyscall, 0, len(names))
	for _, name := range names {
		call, err := seccomp.GetSyscallFromName(name)
		if err != nil {
			return nil, fmt.Errorf("unknown syscall %q: %w", name, err)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func applySeccomp(denied []string) error {
	calls, err := syscallRule(denied)
	if err != nil {
		return err
	}

	filter, err := seccomp.NewFilter(seccomp.ActAllow)
	if err != nil {
		return fmt.Errorf("error creating seccomp filter: %w", err)
	}
	defer filter.Release()

	for _, call := range calls {
		err = filter.AddRule(call, seccomp.ActErrno.SetReturnCode(int16(unix.EPERM)))
		if err != nil {
			return fmt.Errorf("error adding rule to seccomp filter for syscall %d: %w", call, err)
		}
	}

	if err := filter.SetNoNewPrivsBit(true); err != nil {
		return fmt.Errorf("error setting no_new_privs: %w", err)
	}

	err = filter.Load()
	if err != nil {
		return fmt.Errorf("error loading seccomp filter: %w", err)
	}

	return nil
}
