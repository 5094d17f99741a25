package calldesc

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxScratch  = 16 << 10 // bytes
	poolMaxWords    = 1024
	poolInitScratch = 256
	poolInitWords   = 16
)

// scratch buffer pool for output descriptor regions
var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitScratch)
		return &buf
	},
}

func getScratch(size int) []byte {
	p := scratchPool.Get().(*[]byte)
	if cap(*p) < size {
		*p = make([]byte, size)
		return *p
	}
	return (*p)[:size]
}

func putScratch(buf []byte) {
	if buf == nil || cap(buf) > poolMaxScratch {
		return // reject oversized
	}
	buf = buf[:0]
	scratchPool.Put(&buf)
}

// uint64 pool for input record words
var wordPool = sync.Pool{
	New: func() any {
		buf := make([]uint64, 0, poolInitWords)
		return &buf
	},
}

func getWords() []uint64 {
	p := wordPool.Get().(*[]uint64)
	return (*p)[:0]
}

func putWords(buf []uint64) {
	if buf == nil || cap(buf) > poolMaxWords {
		return
	}
	buf = buf[:0]
	wordPool.Put(&buf)
}
