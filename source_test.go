package judge

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazyfrankie/judge-cmp/constant"
)

var errFlaky = errors.New("flaky read failure")

// flakyReader hands out data in random short pieces, sometimes returning
// (0, nil), and optionally fails once failAt bytes have been delivered.
type flakyReader struct {
	data      []byte
	pos       int
	rng       *rand.Rand
	noDataPct int
	failAt    int // -1 disables the failure
}

func newFlakyReader(data []byte, seed int64) *flakyReader {
	return &flakyReader{data: data, rng: rand.New(rand.NewSource(seed)), noDataPct: 10, failAt: -1}
}

func (f *flakyReader) Read(p []byte) (int, error) {
	if f.failAt >= 0 && f.pos >= f.failAt {
		return 0, errFlaky
	}
	if f.pos >= len(f.data) {
		return 0, io.EOF
	}
	if f.rng.Intn(100) < f.noDataPct {
		return 0, nil
	}
	n := 1 + f.rng.Intn(len(p))
	if rest := len(f.data) - f.pos; n > rest {
		n = rest
	}
	if f.failAt >= 0 && f.pos+n > f.failAt {
		n = f.failAt - f.pos
	}
	copy(p, f.data[f.pos:f.pos+n])
	f.pos += n
	return n, nil
}

type stuckReader struct{}

func (stuckReader) Read(p []byte) (int, error) { return 0, nil }

func readAllBytes(s *Source) []byte {
	var out []byte
	for {
		b, ok := s.NextByte()
		if !ok {
			return out
		}
		out = append(out, b)
	}
}

func TestSourceNextByte(t *testing.T) {
	data := []byte("hello\r\nworld \t 1 2 3\n")
	for seed := int64(0); seed < 20; seed++ {
		s := NewSource(newFlakyReader(data, seed), make([]byte, 3))
		assert.Equal(t, data, readAllBytes(s), "seed %d", seed)
		assert.NoError(t, s.Err())
		assert.Equal(t, int64(len(data)), s.Consumed())
	}
}

func TestSourceEOFIsSticky(t *testing.T) {
	s := NewSource(newFlakyReader([]byte("ab"), 1), make([]byte, 8))
	readAllBytes(s)
	for i := 0; i < 5; i++ {
		_, ok := s.NextByte()
		assert.False(t, ok)
		assert.Nil(t, s.Chunk())
	}
	assert.NoError(t, s.Err())
}

func TestSourceChunkAdvance(t *testing.T) {
	s := NewSource(newFlakyReader([]byte("0123456789"), 7), make([]byte, 4))
	var got []byte
	for {
		chunk := s.Chunk()
		if chunk == nil {
			break
		}
		require.NotEmpty(t, chunk)
		require.LessOrEqual(t, len(chunk), 4)
		// consume one byte at a time through Advance
		got = append(got, chunk[0])
		s.Advance(1)
	}
	assert.Equal(t, "0123456789", string(got))
	assert.Equal(t, int64(10), s.Consumed())
}

func TestSourceChunkDoesNotConsume(t *testing.T) {
	s := NewBytesSource([]byte("abc"))
	assert.Equal(t, "abc", string(s.Chunk()))
	assert.Equal(t, "abc", string(s.Chunk()))

	b, ok := s.NextByte()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, "bc", string(s.Chunk()))

	s.Advance(100)
	assert.Nil(t, s.Chunk())
	assert.Equal(t, int64(3), s.Consumed())
}

func TestSourceMixedBytesAndChunks(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	s := NewSource(newFlakyReader(data, 3), make([]byte, 5))
	var got []byte
	for i := 0; ; i++ {
		if i%2 == 0 {
			b, ok := s.NextByte()
			if !ok {
				break
			}
			got = append(got, b)
			continue
		}
		chunk := s.Chunk()
		if chunk == nil {
			break
		}
		n := (len(chunk) + 1) / 2
		got = append(got, chunk[:n]...)
		s.Advance(n)
	}
	assert.Equal(t, string(data), string(got))
}

func TestSourceReadError(t *testing.T) {
	r := newFlakyReader([]byte("0123456789"), 5)
	r.failAt = 6
	s := NewSource(r, make([]byte, 4)).Named("user")

	got := readAllBytes(s)
	assert.Equal(t, "012345", string(got))

	var sysErr *constant.SystemErr
	require.ErrorAs(t, s.Err(), &sysErr)
	assert.ErrorIs(t, s.Err(), errFlaky)
	assert.Contains(t, s.Err().Error(), "read user")

	// a failed source keeps reporting end of stream
	_, ok := s.NextByte()
	assert.False(t, ok)
	assert.Nil(t, s.Chunk())
}

func TestSourceNoProgress(t *testing.T) {
	s := NewSource(stuckReader{}, make([]byte, 16))
	_, ok := s.NextByte()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), io.ErrNoProgress)
}

func TestNewSourceSize(t *testing.T) {
	s := NewSourceSize(newFlakyReader(nil, 1), 10)
	assert.Len(t, s.buf, MinBufferSize)
	assert.Panics(t, func() { NewSource(newFlakyReader(nil, 1), nil) })
}

func TestDrain(t *testing.T) {
	data := make([]byte, 10000)
	r := newFlakyReader(data, 11)
	s := NewSource(r, make([]byte, 64))
	require.NoError(t, Drain(s))
	assert.Equal(t, len(data), r.pos)
	assert.Equal(t, int64(len(data)), s.Consumed())

	r = newFlakyReader(data, 12)
	r.failAt = 500
	s = NewSource(r, make([]byte, 64))
	assert.ErrorIs(t, Drain(s), errFlaky)
}
