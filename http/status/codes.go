package status

import "strconv"

type Code = int

// Codes used by the response proxy and the bindings. Values are the IANA-registered ones.
const (
	OK        Code = 200
	Created   Code = 201
	NoContent Code = 204

	MovedPermanently  Code = 301
	Found             Code = 302
	SeeOther          Code = 303
	NotModified       Code = 304
	TemporaryRedirect Code = 307
	PermanentRedirect Code = 308

	BadRequest            Code = 400
	Unauthorized          Code = 401
	Forbidden             Code = 403
	NotFound              Code = 404
	MethodNotAllowed      Code = 405
	NotAcceptable         Code = 406
	RequestTimeout        Code = 408
	Conflict              Code = 409
	RequestEntityTooLarge Code = 413
	UnsupportedMediaType  Code = 415
	Teapot                Code = 418
	UnprocessableEntity   Code = 422
	TooManyRequests       Code = 429

	InternalServerError Code = 500
	NotImplemented      Code = 501
	BadGateway          Code = 502
	ServiceUnavailable  Code = 503
	GatewayTimeout      Code = 504
)

var texts = map[Code]string{
	OK:                    "OK",
	Created:               "Created",
	NoContent:             "No Content",
	MovedPermanently:      "Moved Permanently",
	Found:                 "Found",
	SeeOther:              "See Other",
	NotModified:           "Not Modified",
	TemporaryRedirect:     "Temporary Redirect",
	PermanentRedirect:     "Permanent Redirect",
	BadRequest:            "Bad Request",
	Unauthorized:          "Unauthorized",
	Forbidden:             "Forbidden",
	NotFound:              "Not Found",
	MethodNotAllowed:      "Method Not Allowed",
	NotAcceptable:         "Not Acceptable",
	RequestTimeout:        "Request Timeout",
	Conflict:              "Conflict",
	RequestEntityTooLarge: "Request Entity Too Large",
	UnsupportedMediaType:  "Unsupported Media Type",
	Teapot:                "I'm a teapot",
	UnprocessableEntity:   "Unprocessable Entity",
	TooManyRequests:       "Too Many Requests",
	InternalServerError:   "Internal Server Error",
	NotImplemented:        "Not Implemented",
	BadGateway:            "Bad Gateway",
	ServiceUnavailable:    "Service Unavailable",
	GatewayTimeout:        "Gateway Timeout",
}

// Text returns a reason phrase for the code. Unknown codes result in an empty string.
func Text(code Code) string {
	return texts[code]
}

// StringCode returns the decimal representation of the code, as it goes into the status line.
func StringCode(code Code) string {
	return strconv.Itoa(code)
}

// IsRedirect reports whether the code belongs to the 3xx class.
func IsRedirect(code Code) bool {
	return code >= 300 && code < 400
}
