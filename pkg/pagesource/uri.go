package pagesource

import "strings"

// FileURI turns a relative filesystem path into the "file:" URI this
// package attaches as a read-only backing store. Bytes that are
// reserved in URIs, or that fall outside printable ASCII, are
// percent-encoded with two uppercase hex digits; an initial '/' (an
// input path is never absolute, but this package does not re-validate
// that here) gets the usual "file:///" treatment.
func FileURI(path string) string {
	var b strings.Builder
	b.Grow(len(path) + len("file://?mode=ro"))
	b.WriteString("file:")
	if strings.HasPrefix(path, "/") {
		b.WriteString("//")
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '%' || c == '#' || c == '?' || c <= ' ' || c >= 0x7F {
			b.WriteByte('%')
			b.WriteByte(hexDigit(c >> 4))
			b.WriteByte(hexDigit(c & 0xF))
		} else {
			b.WriteByte(c)
		}
	}
	b.WriteString("?mode=ro")
	return b.String()
}

func hexDigit(v byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[v&0xF]
}
