package judge

import "sync"

// BufferPool 复用固定大小的读缓冲区，同一个缓冲区同时只会借给一个调用方
type BufferPool struct {
	size int

	mu   sync.Mutex
	free [][]byte
}

// NewBufferPool 创建缓冲区大小为 size 的池
func NewBufferPool(size int) *BufferPool {
	if size < MinBufferSize {
		size = MinBufferSize
	}
	return &BufferPool{size: size}
}

// Size 池中缓冲区的大小
func (p *BufferPool) Size() int {
	return p.size
}

// Get 借出一个缓冲区，池为空时新分配
func (p *BufferPool) Get() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return buf
	}
	return make([]byte, p.size)
}

// Put 归还缓冲区，大小不符的缓冲区直接丢弃
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) != p.size {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, buf[:p.size])
}
