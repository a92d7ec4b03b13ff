package judge

import "github.com/crazyfrankie/judge-cmp/constant"

// Verdict 一次比较的结论
type Verdict int

const (
	Accepted          Verdict = constant.Accepted
	WrongAnswer       Verdict = constant.WrongAnswer
	PresentationError Verdict = constant.PresentationError
)

// String returns the short label printed by the checker.
func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "AC"
	case WrongAnswer:
		return "WA"
	case PresentationError:
		return "PE"
	}
	return "UNKNOWN"
}

// ExitCode 进程退出码
func (v Verdict) ExitCode() int {
	return int(v)
}
