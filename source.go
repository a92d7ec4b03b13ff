package judge

import (
	"errors"
	"io"

	"github.com/crazyfrankie/judge-cmp/constant"
)

// MinBufferSize 缓冲区的最小容量
const MinBufferSize = 1024

// DefaultBufferSize 默认缓冲区容量
const DefaultBufferSize = 64 * 1024

const maxEmptyReads = 100

// Source 是一个按需从底层读取的字节源。
// 缓冲区由 [r, w) 描述尚未消费的字节；refill 只在缓冲区耗尽时发生。
// 读取失败后 Source 表现为 EOF，并通过 Err 报告失败原因。
type Source struct {
	rd   io.Reader
	name string
	buf  []byte
	r, w int
	eof  bool
	err  error
	n    int64
}

// NewSource 使用调用方提供的缓冲区创建 Source
func NewSource(rd io.Reader, buf []byte) *Source {
	if len(buf) == 0 {
		panic("judge: NewSource with empty buffer")
	}
	return &Source{rd: rd, buf: buf}
}

// NewSourceSize 创建自带 size 字节缓冲区的 Source
func NewSourceSize(rd io.Reader, size int) *Source {
	if size < MinBufferSize {
		size = MinBufferSize
	}
	return NewSource(rd, make([]byte, size))
}

// NewBytesSource 创建内存字节源，b 本身就是缓冲区，不做拷贝
func NewBytesSource(b []byte) *Source {
	return &Source{buf: b, w: len(b), eof: true, name: "memory"}
}

// Named sets the label used in error messages.
func (s *Source) Named(name string) *Source {
	s.name = name
	return s
}

// fill 在缓冲区耗尽时从底层重新读取，返回是否有新数据
func (s *Source) fill() bool {
	if s.eof || s.err != nil {
		return false
	}
	s.r, s.w = 0, 0
	for i := 0; i < maxEmptyReads; i++ {
		n, err := s.rd.Read(s.buf)
		if n < 0 || n > len(s.buf) {
			s.fail(errors.New("invalid read count"))
			return false
		}
		s.w = n
		if err != nil {
			if err == io.EOF {
				s.eof = true
			} else {
				s.fail(err)
				s.w = 0
				return false
			}
		}
		if n > 0 {
			return true
		}
		if s.eof {
			return false
		}
	}
	s.fail(io.ErrNoProgress)
	return false
}

func (s *Source) fail(err error) {
	s.err = &constant.SystemErr{Msg: "read " + s.label(), Err: err}
}

func (s *Source) label() string {
	if s.name == "" {
		return "stream"
	}
	return s.name
}

// NextByte 返回下一个字节，到达 EOF 或读取失败时第二个返回值为 false
func (s *Source) NextByte() (byte, bool) {
	if s.r < s.w {
		b := s.buf[s.r]
		s.r++
		s.n++
		return b, true
	}
	if !s.fill() {
		return 0, false
	}
	b := s.buf[s.r]
	s.r++
	s.n++
	return b, true
}

// Chunk 返回当前缓冲区中尚未消费的字节，不消费它们。
// 缓冲区为空时才会读取底层；返回 nil 表示 EOF。
// 返回的切片在下一次对该 Source 的读取操作之前有效。
func (s *Source) Chunk() []byte {
	if s.r >= s.w && !s.fill() {
		return nil
	}
	return s.buf[s.r:s.w]
}

// Advance 将最近一次 Chunk 的前 n 个字节标记为已消费
func (s *Source) Advance(n int) {
	if n <= 0 {
		return
	}
	if rest := s.w - s.r; n > rest {
		n = rest
	}
	s.r += n
	s.n += int64(n)
}

// Err 返回读取过程中遇到的 I/O 错误
func (s *Source) Err() error {
	return s.err
}

// Consumed 已消费的字节数
func (s *Source) Consumed() int64 {
	return s.n
}

// Drain 读取并丢弃剩余的全部字节，避免写端收到 SIGPIPE
func Drain(s *Source) error {
	for {
		chunk := s.Chunk()
		if chunk == nil {
			return s.Err()
		}
		s.Advance(len(chunk))
	}
}

// firstErr 返回两个 Source 中第一个 I/O 错误
func firstErr(std, user *Source) error {
	if err := std.Err(); err != nil {
		return err
	}
	return user.Err()
}
