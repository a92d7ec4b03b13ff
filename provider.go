package judge

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/DataDog/zstd"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	"github.com/crazyfrankie/judge-cmp/constant"
)

// zstd 帧的魔数
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Stream 持有一个 Source 以及它背后需要关闭的资源。
// closers[0] 总是最底层的文件。
type Stream struct {
	*Source
	sniff   *zstdSniffer
	closers []io.Closer
}

// Compressed 报告底层数据是否为 zstd 帧。第一次读取之前总是 false。
func (s *Stream) Compressed() bool {
	return s.sniff != nil && s.sniff.compressed
}

// Close 关闭底层资源，返回合并后的错误
func (s *Stream) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	s.closers = nil
	return err
}

// abort 只关闭最底层的文件，用于打断阻塞中的读取
func (s *Stream) abort() error {
	if len(s.closers) == 0 {
		return nil
	}
	c := s.closers[0]
	s.closers = s.closers[1:]
	return c.Close()
}

// OpenPath 打开文件作为字节源。decompress 为 true 时 zstd 压缩的数据会被透明解压。
func OpenPath(path string, buf []byte, decompress bool) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &constant.SystemErr{Msg: "open " + path, Err: err}
	}
	return newStream(f, path, buf, decompress), nil
}

// OpenFD 使用已打开的文件描述符作为字节源，Stream 接管该描述符。
// 描述符被切换为非阻塞模式，pipe 上阻塞的读取可以被 Close 唤醒。
func OpenFD(fd int, name string, buf []byte, decompress bool) (*Stream, error) {
	if fd < 0 {
		return nil, &constant.SystemErr{Msg: fmt.Sprintf("invalid file descriptor %d", fd)}
	}
	if name == "" {
		name = "fd " + strconv.Itoa(fd)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, &constant.SystemErr{Msg: "set nonblock on " + name, Err: err}
	}
	return newStream(os.NewFile(uintptr(fd), name), name, buf, decompress), nil
}

// OpenBytes 内存中的字节源
func OpenBytes(b []byte) *Stream {
	return &Stream{Source: NewBytesSource(b)}
}

func newStream(f io.ReadCloser, name string, buf []byte, decompress bool) *Stream {
	st := &Stream{closers: []io.Closer{f}}
	var rd io.Reader = f
	if decompress {
		st.sniff = &zstdSniffer{rd: f}
		st.closers = append(st.closers, st.sniff)
		rd = st.sniff
	}
	st.Source = NewSource(rd, buf).Named(name)
	return st
}

// zstdSniffer 在第一次读取时检查 zstd 魔数，打开时不读取任何数据
type zstdSniffer struct {
	rd         io.Reader
	src        io.Reader
	zr         io.ReadCloser
	compressed bool
}

func (z *zstdSniffer) Read(p []byte) (int, error) {
	if z.src == nil {
		br := bufio.NewReaderSize(z.rd, len(zstdMagic))
		head, err := br.Peek(len(zstdMagic))
		if err != nil && err != io.EOF {
			return 0, err
		}
		z.src = br
		if bytes.Equal(head, zstdMagic) {
			z.zr = zstd.NewReader(br)
			z.src = z.zr
			z.compressed = true
		}
	}
	return z.src.Read(p)
}

func (z *zstdSniffer) Close() error {
	if z.zr == nil {
		return nil
	}
	return z.zr.Close()
}
