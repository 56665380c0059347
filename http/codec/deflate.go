package codec

import (
	"io"

	"github.com/klauspost/compress/flate"
)

func NewDeflate() Codec {
	return newCodec("deflate",
		func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, 5)
		},
		func(r io.Reader) (io.ReadCloser, error) {
			return flate.NewReader(r), nil
		},
	)
}
