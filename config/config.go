package config

import (
	"github.com/dchest/uniuri"
	"github.com/indigo-web/shim/http/mime"
)

type (
	Body struct {
		// MaxSize limits the body a binding agrees to materialize. Bigger bodies result in
		// status.ErrRequestEntityTooLarge on the stream.
		MaxSize int64
		// BufferPrealloc is the initial capacity of the buffer holding the whole body, if its
		// length isn't known in advance.
		BufferPrealloc int
	}

	JSONP struct {
		// CallbackParam is the query parameter carrying the JSONP callback name.
		CallbackParam string
	}

	Files struct {
		// DefaultMIME is used by Download and SendFile when the extension is unknown.
		DefaultMIME mime.MIME
	}

	Headers struct {
		// Default headers are set by bindings on every native response before the chain
		// runs, so handlers are free to override them.
		Default map[string]string `test:"nullable"`
	}

	Request struct {
		// IDLength is the length of the random request identifier.
		IDLength int
	}
)

// Config holds settings used by the adapter and the bindings.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because zero values aren't meaningful.
type Config struct {
	Body    Body
	JSONP   JSONP
	Files   Files
	Headers Headers
	Request Request
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Body: Body{
			MaxSize:        16 * 1024 * 1024, // 16 megabytes
			BufferPrealloc: 1024,
		},
		JSONP: JSONP{
			CallbackParam: "callback",
		},
		Files: Files{
			DefaultMIME: mime.OctetStream,
		},
		Headers: Headers{
			Default: make(map[string]string),
		},
		Request: Request{
			IDLength: uniuri.StdLen,
		},
	}
}
