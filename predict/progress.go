package predict

import "io"

// ProgressFunc receives the number of request body bytes handed to the transport so far
type ProgressFunc func(sent, total int64)

// progressReader counts bytes read from the request body
type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	onRead ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.onRead != nil {
			pr.onRead(pr.sent, pr.total)
		}
	}
	return n, err
}
