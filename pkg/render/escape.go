package render

import "strings"

const textSpecials = "&<>\"'"
const attrSpecials = "&<>\"'\n\r\t"

// escapeHTML escapes text content so user data cannot terminate the
// surrounding markup. The input is returned unchanged when it contains
// no special characters, which is the common case for prose.
func escapeHTML(s string) string {
	return escape(s, textSpecials)
}

// escapeAttr escapes attribute values. Beyond the text entities it also
// encodes whitespace control characters, which could otherwise break
// attribute parsing.
func escapeAttr(s string) string {
	return escape(s, attrSpecials)
}

func escape(s, specials string) string {
	i := strings.IndexAny(s, specials)
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	b.WriteString(s[:i])

	// Every special character is ASCII; multi-byte runes pass through
	// byte by byte unchanged.
	for ; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(specials, c) < 0 {
			b.WriteByte(c)
			continue
		}
		switch c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		case '\n':
			b.WriteString("&#10;")
		case '\r':
			b.WriteString("&#13;")
		case '\t':
			b.WriteString("&#9;")
		}
	}
	return b.String()
}
