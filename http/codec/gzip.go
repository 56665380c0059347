package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

func NewGZIP() Codec {
	return newCodec("gzip",
		func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		},
		func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	)
}
