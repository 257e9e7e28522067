// Package sanitize repairs byte streams into well-formed UTF-8.
//
// The Transformer runs input through a streaming utf8.Decoder and
// re-encodes what it decodes, so every malformed sequence comes out as
// EF BF BD and well-formed text passes through unchanged. It plugs into
// golang.org/x/text/transform:
//
//	r := transform.NewReader(os.Stdin, sanitize.New())
//	io.Copy(os.Stdout, r)
//
// A Transformer carries decoder state between calls and is not safe for
// concurrent use. Reset returns it to its initial state.
package sanitize
