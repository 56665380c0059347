// Package codec provides content codings, used to decode request bodies and to encode
// payloads.
package codec

import (
	"bytes"
	"errors"
	"io"
)

// ErrTooLarge is returned when the decoded data exceeds the limit.
var ErrTooLarge = errors.New("decoded data exceeds the limit")

type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	Encode(data []byte) ([]byte, error)
	// Decode decodes the data, failing with ErrTooLarge if the result exceeds limit bytes.
	Decode(data []byte, limit int64) ([]byte, error)
}

type (
	writerFactory func(w io.Writer) (io.WriteCloser, error)
	readerFactory func(r io.Reader) (io.ReadCloser, error)
)

type codec struct {
	token     string
	newWriter writerFactory
	newReader readerFactory
}

func newCodec(token string, w writerFactory, r readerFactory) Codec {
	return codec{
		token:     token,
		newWriter: w,
		newReader: r,
	}
}

func (c codec) Token() string {
	return c.token
}

func (c codec) Encode(data []byte) ([]byte, error) {
	var buff bytes.Buffer
	w, err := c.newWriter(&buff)
	if err != nil {
		return nil, err
	}

	if _, err = w.Write(data); err != nil {
		return nil, err
	}

	if err = w.Close(); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

func (c codec) Decode(data []byte, limit int64) ([]byte, error) {
	r, err := c.newReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	defer r.Close()

	decoded, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}

	if int64(len(decoded)) > limit {
		return nil, ErrTooLarge
	}

	return decoded, nil
}

// Registry looks codecs up by their tokens.
type Registry map[string]Codec

func NewRegistry(codecs ...Codec) Registry {
	registry := make(Registry, len(codecs))
	for _, c := range codecs {
		registry[c.Token()] = c
	}

	return registry
}

// Default returns all the supported codecs.
func Default() Registry {
	return NewRegistry(NewGZIP(), NewDeflate(), NewZSTD())
}
