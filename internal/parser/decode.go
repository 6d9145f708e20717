package parser

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for a character set name that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// decodeReader converts r to UTF-8. A UTF-8 or UTF-16 byte-order mark wins
// over name; without one, the input is decoded as name (WHATWG labels such as
// "utf-8", "windows-1251", "koi8-r"). Invalid bytes become U+FFFD.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}
