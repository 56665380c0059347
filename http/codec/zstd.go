package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

func NewZSTD() Codec {
	return newCodec("zstd",
		func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
		func(r io.Reader) (io.ReadCloser, error) {
			decoder, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}

			return decoder.IOReadCloser(), nil
		},
	)
}
