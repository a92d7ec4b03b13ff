package judge

import (
	"go.uber.org/multierr"
)

// StdCheck 比较标准输出文件与用户输出文件，只有标准输出会被 zstd 解压
func StdCheck(stdPath, userPath string, mode Mode, eps float64) (Verdict, error) {
	std, err := OpenPath(stdPath, make([]byte, DefaultBufferSize), true)
	if err != nil {
		return WrongAnswer, err
	}
	user, err := OpenPath(userPath, make([]byte, DefaultBufferSize), false)
	if err != nil {
		return WrongAnswer, multierr.Append(err, std.Close())
	}

	v, err := Compare(mode, std.Source, user.Source, eps)
	if closeErr := multierr.Combine(std.Close(), user.Close()); err == nil {
		err = closeErr
	}
	if err != nil {
		return WrongAnswer, err
	}
	return v, nil
}

// CheckBytes 比较两段内存中的输出
func CheckBytes(std, user []byte, mode Mode, eps float64) (Verdict, error) {
	return Compare(mode, NewBytesSource(std), NewBytesSource(user), eps)
}
