package engine

import "sync"

// equityBufPool recycles the per-combination equity scratch buffers.
// A sweep runs hundreds of short pipelines back to back; reusing the
// buffers keeps the hot loop allocation-light.
var equityBufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]float64, 0, 4096)
		return &buf
	},
}

// acquireEquityBuf gets an empty equity buffer from the pool.
func acquireEquityBuf() *[]float64 {
	buf := equityBufPool.Get().(*[]float64)
	*buf = (*buf)[:0]
	return buf
}

// releaseEquityBuf returns a buffer to the pool after the metrics pass.
func releaseEquityBuf(buf *[]float64) {
	if buf == nil {
		return
	}
	*buf = (*buf)[:0]
	equityBufPool.Put(buf)
}
