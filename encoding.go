package mdhtml

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// LookupEncoding resolves a WHATWG encoding label such as "latin1",
// "windows-1252" or "shift_jis". UTF-8 labels resolve to nil because the
// decoder reads UTF-8 natively.
func LookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	if name, err := htmlindex.Name(enc); err == nil && name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// encodingFromContentType returns the encoding named by the charset
// parameter of an HTTP Content-Type header, if any.
func encodingFromContentType(contentType string) (encoding.Encoding, error) {
	if contentType == "" {
		return nil, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil
	}
	return LookupEncoding(params["charset"])
}
