package judge

import "bytes"

const (
	// bulkWarmup 开启整块跳过前至少经过的比较步数
	bulkWarmup = 1024
	// 相同字节占比超过 bulkRatio/bulkScale 时开启整块跳过
	bulkRatio = 255
	bulkScale = 256

	prefixStride = 64
)

// asciiSpace 与 Rust 的 u8::is_ascii_whitespace 一致：不含 \v
var asciiSpace = [256]bool{' ': true, '\t': true, '\n': true, '\f': true, '\r': true}

func isSpace(b byte) bool {
	return asciiSpace[b]
}

// CompareNormal 忽略行尾空白、换行符差异与末尾空行进行比较。
// 行内空白长度或种类不同记为 PresentationError。
func CompareNormal(std, user *Source) (Verdict, error) {
	v, _ := compareNormal(std, user, true)
	if err := firstErr(std, user); err != nil {
		return WrongAnswer, err
	}
	return v, nil
}

// compareNormal 返回结论以及整块跳过的字节数。
// bulk 为 false 时逐字节比较。
func compareNormal(std, user *Source, bulk bool) (Verdict, int64) {
	var steps, same, skipped int64

	a, aok := std.NextByte()
	b, bok := user.NextByte()
	ans := Accepted

	for {
		steps++

		if !aok {
			if !bok {
				return ans, skipped
			}
			if !isSpace(b) || !pollEOF(user) {
				return WrongAnswer, skipped
			}
			return ans, skipped
		}
		if !bok {
			if !isSpace(a) || !pollEOF(std) {
				return WrongAnswer, skipped
			}
			return ans, skipped
		}

		if a == b {
			same++
			if bulk && steps >= bulkWarmup && same*bulkScale > steps*bulkRatio {
				n := skipCommon(std, user)
				skipped += n
				steps += n
				same += n
			}
			a, aok = std.NextByte()
			b, bok = user.NextByte()
			continue
		}

		if a == '\n' {
			if !isSpace(b) || !pollEndline(user) {
				return WrongAnswer, skipped
			}
			a, aok = std.NextByte()
			b, bok = user.NextByte()
			continue
		}
		if b == '\n' {
			if !isSpace(a) || !pollEndline(std) {
				return WrongAnswer, skipped
			}
			a, aok = std.NextByte()
			b, bok = user.NextByte()
			continue
		}

		spaceA, spaceB := isSpace(a), isSpace(b)
		if !spaceA && !spaceB {
			return WrongAnswer, skipped
		}
		if spaceA {
			a, aok = pollNonspace(std)
		}
		if spaceB {
			b, bok = pollNonspace(user)
		}

		// 任一侧到达 EOF，交给循环开头的 EOF 规则处理剩余字节
		if !aok || !bok {
			continue
		}

		lineA, lineB := a == '\n', b == '\n'
		switch {
		case lineA && lineB:
			a, aok = std.NextByte()
			b, bok = user.NextByte()
		case lineA || lineB:
			return WrongAnswer, skipped
		case a == b:
			ans = PresentationError
			a, aok = std.NextByte()
			b, bok = user.NextByte()
		default:
			return WrongAnswer, skipped
		}
	}
}

// pollEOF 读到 EOF，要求剩余字节全部是空白
func pollEOF(s *Source) bool {
	for {
		b, ok := s.NextByte()
		if !ok {
			return true
		}
		if !isSpace(b) {
			return false
		}
	}
}

// pollEndline 读到 '\n' 或 EOF，要求本行剩余字节全部是空白
func pollEndline(s *Source) bool {
	for {
		b, ok := s.NextByte()
		if !ok || b == '\n' {
			return true
		}
		if !isSpace(b) {
			return false
		}
	}
}

// pollNonspace 跳过空白，停在 '\n'、非空白字节或 EOF
func pollNonspace(s *Source) (byte, bool) {
	for {
		b, ok := s.NextByte()
		if !ok || b == '\n' || !isSpace(b) {
			return b, ok
		}
	}
}

// skipCommon 直接比较两侧缓冲区，跳过相同的前缀，返回跳过的字节数
func skipCommon(std, user *Source) int64 {
	var total int64
	for {
		a := std.Chunk()
		if a == nil {
			return total
		}
		b := user.Chunk()
		if b == nil {
			return total
		}
		n := commonPrefix(a, b)
		std.Advance(n)
		user.Advance(n)
		total += int64(n)
		if n < len(a) && n < len(b) {
			return total
		}
	}
}

func commonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for ; i+prefixStride <= n; i += prefixStride {
		if !bytes.Equal(a[i:i+prefixStride], b[i:i+prefixStride]) {
			break
		}
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
