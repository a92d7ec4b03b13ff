package judge

import (
	"fmt"
	"strings"

	"github.com/crazyfrankie/judge-cmp/constant"
)

// Mode 比较方式
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeStrict Mode = "strict"
	ModeFloat  Mode = "float"
)

// ParseMode accepts the mode names and their aliases "exact" and "numeric".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return ModeNormal, nil
	case "strict", "exact":
		return ModeStrict, nil
	case "float", "numeric":
		return ModeFloat, nil
	}
	return "", &constant.ConfigErr{Msg: fmt.Sprintf("unknown compare mode %q", s)}
}

// Compare 按 mode 调用对应的比较器
func Compare(mode Mode, std, user *Source, eps float64) (Verdict, error) {
	v, _, err := compare(mode, std, user, eps)
	return v, err
}

// compare 额外返回整块跳过的字节数，仅 normal 模式非零
func compare(mode Mode, std, user *Source, eps float64) (Verdict, int64, error) {
	var (
		v       Verdict
		skipped int64
	)
	switch mode {
	case ModeNormal:
		v, skipped = compareNormal(std, user, true)
	case ModeStrict:
		v = compareExact(std, user)
	case ModeFloat:
		v = compareNumeric(std, user, eps)
	default:
		return WrongAnswer, 0, &constant.ConfigErr{Msg: fmt.Sprintf("unknown compare mode %q", mode)}
	}
	if err := firstErr(std, user); err != nil {
		return WrongAnswer, skipped, err
	}
	return v, skipped, nil
}
