package logging

import (
	"bytes"
	"sync"
)

// 超过该容量的缓冲区不回收，一条超长日志不会让池子一直占着大块内存
const maxPooledBuffer = 64 << 10

var buffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func getBuffer() *bytes.Buffer {
	return buffers.Get().(*bytes.Buffer)
}

func putBuffer(b *bytes.Buffer) {
	if b.Cap() > maxPooledBuffer {
		return
	}
	b.Reset()
	buffers.Put(b)
}
