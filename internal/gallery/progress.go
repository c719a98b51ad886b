package gallery

import "io"

// progressReader forwards read progress to a ProgressFunc as a percentage of
// the expected total. The callback runs on the uploading goroutine; sinks
// must not block.
type progressReader struct {
	inner       io.Reader
	total       int64
	transferred int64
	onProgress  ProgressFunc
}

func newProgressReader(inner io.Reader, total int64, onProgress ProgressFunc) io.Reader {
	if onProgress == nil {
		return inner
	}
	return &progressReader{inner: inner, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.inner.Read(buf)
	if n > 0 {
		p.transferred += int64(n)
		if p.total > 0 {
			p.onProgress(float64(p.transferred) / float64(p.total) * 100)
		}
	}
	return n, err
}
