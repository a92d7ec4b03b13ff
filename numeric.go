package judge

import (
	"errors"
	"math"
	"strconv"
)

// MaxTokenLen 数值 token 的最大长度，超过即视为解析失败
const MaxTokenLen = 512

var (
	errTokenTooLong = errors.New("token too long")
	errHexFloat     = errors.New("hexadecimal float")
)

// CompareNumeric 将两个输出按空白切分为浮点数序列，逐个比较绝对误差。
// 误差大于 eps、无法解析、个数不同均为 WrongAnswer；不会产生 PresentationError。
// eps 由调用方保证有限且非负。
func CompareNumeric(std, user *Source, eps float64) (Verdict, error) {
	v := compareNumeric(std, user, eps)
	if err := firstErr(std, user); err != nil {
		return WrongAnswer, err
	}
	return v, nil
}

func compareNumeric(std, user *Source, eps float64) Verdict {
	var stdTok, userTok [MaxTokenLen]byte
	for {
		x, okx, err := nextFloat(std, stdTok[:0])
		if err != nil {
			return WrongAnswer
		}
		y, oky, err := nextFloat(user, userTok[:0])
		if err != nil {
			return WrongAnswer
		}

		switch {
		case !okx && !oky:
			return Accepted
		case okx != oky:
			return WrongAnswer
		}

		// NaN 的比较恒为 false，因此写成 !(d <= eps)
		if d := math.Abs(y - x); !(d <= eps) {
			return WrongAnswer
		}
	}
}

// nextFloat 读取下一个 token 并解析为 float64，EOF 时 ok 为 false
func nextFloat(s *Source, tok []byte) (f float64, ok bool, err error) {
	tok, err = nextToken(s, tok)
	if err != nil || len(tok) == 0 {
		return 0, false, err
	}
	// ParseFloat 还接受 0x1p-2 这样的十六进制写法，这里只认十进制
	if isHexFloat(tok) {
		return 0, false, errHexFloat
	}
	f, err = strconv.ParseFloat(string(tok), 64)
	if err != nil {
		var numErr *strconv.NumError
		// 溢出时 ParseFloat 返回 ±Inf，按普通数值比较
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return 0, false, err
		}
	}
	return f, true, nil
}

// nextToken 跳过前导空白，收集到下一个空白或 EOF 为止
func nextToken(s *Source, tok []byte) ([]byte, error) {
	b, ok := s.NextByte()
	for ok && isSpace(b) {
		b, ok = s.NextByte()
	}
	for ok && !isSpace(b) {
		if len(tok) == MaxTokenLen {
			return nil, errTokenTooLong
		}
		tok = append(tok, b)
		b, ok = s.NextByte()
	}
	return tok, nil
}

func isHexFloat(tok []byte) bool {
	if len(tok) > 0 && (tok[0] == '+' || tok[0] == '-') {
		tok = tok[1:]
	}
	return len(tok) >= 2 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X')
}
