package judge

import "bytes"

// CompareExact 逐块比较两个输出，要求字节完全一致
func CompareExact(std, user *Source) (Verdict, error) {
	v := compareExact(std, user)
	if err := firstErr(std, user); err != nil {
		return WrongAnswer, err
	}
	return v, nil
}

func compareExact(std, user *Source) Verdict {
	for {
		a := std.Chunk()
		b := user.Chunk()

		switch {
		case a == nil && b == nil:
			return Accepted
		case a == nil || b == nil:
			return WrongAnswer
		}

		n := min(len(a), len(b))
		if !bytes.Equal(a[:n], b[:n]) {
			return WrongAnswer
		}
		std.Advance(n)
		user.Advance(n)
	}
}
