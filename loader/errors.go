package loader

import "errors"

var (
	// ErrNoContainer is returned if the document root is not a <vfs> element.
	ErrNoContainer = errors.New("root element must be <vfs>")

	// ErrMissingName is returned for a dir or file element without a name.
	ErrMissingName = errors.New("missing name attribute")

	// ErrBadBase64 is returned for a base64 file payload that does not decode.
	ErrBadBase64 = errors.New("invalid base64 payload")

	// ErrBadEncoding is returned for an unknown codec or text it cannot encode.
	ErrBadEncoding = errors.New("unsupported encoding")
)
