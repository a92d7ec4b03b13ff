package judge

import (
	"bytes"

	"golang.org/x/sys/unix"
)

// MemoryStatus values are in KiB, as reported by /proc/<pid>/status.
type MemoryStatus struct {
	VMSize int // 虚拟内存大小（VmSize）
	VMPeak int // 虚拟内存峰值（VmPeak）
	VMRSS  int // 常驻内存集大小（VmRSS）
	VMHWM  int // 常驻内存峰值（VmHWM）
	VMData int // 数据段大小（VmData）
	VMStk  int // 堆栈段大小（VmStk）
}

// MemoryUsage parses an open /proc/<pid>/status descriptor.
func MemoryUsage(fd int) (MemoryStatus, error) {
	ms := MemoryStatus{}
	body := make([]byte, 4096)
	count, err := unix.Pread(fd, body, 0)
	if err != nil {
		return ms, err
	}

	for _, line := range bytes.Split(body[:count], []byte{'\n'}) {
		key, value, ok := bytes.Cut(line, []byte{':'})
		if !ok || !bytes.HasPrefix(key, []byte("Vm")) {
			continue
		}
		v := extractMemoryValue(bytes.TrimLeft(value, " \t"))
		switch string(key[2:]) {
		case "Size":
			ms.VMSize = v
		case "Peak":
			ms.VMPeak = v
		case "RSS":
			ms.VMRSS = v
		case "HWM":
			ms.VMHWM = v
		case "Data":
			ms.VMData = v
		case "Stk":
			ms.VMStk = v
		}
	}

	return ms, nil
}

// selfMemoryUsage reads /proc/self/status.
func selfMemoryUsage() (MemoryStatus, error) {
	fd, err := unix.Open("/proc/self/status", unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return MemoryStatus{}, err
	}
	defer unix.Close(fd)
	return MemoryUsage(fd)
}

// Extract the number in the Vm row
func extractMemoryValue(body []byte) int {
	ans := 0
	for i := 0; i < len(body) && isDigit(body[i]); i++ {
		ans = ans*10 + int(body[i]-'0')
	}
	return ans
}

// Determine whether a byte is a number
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
