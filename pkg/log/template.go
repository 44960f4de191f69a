package log

import (
	"fmt"
	"strconv"
	"strings"
)

// render expands a message template.
//
// Placeholders are {name} or {0}. They consume args in order of appearance,
// regardless of the name, and each consumed arg becomes a property named after
// its placeholder. {{ and }} are literal braces. Placeholders with no arg left
// are written verbatim. Args left over after the last placeholder become
// properties keyed by their index.
func render(template string, args []any) (string, []Property) {
	var (
		b     strings.Builder
		props []Property
		next  int
	)
	b.Grow(len(template))

scan:
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				break scan
			}
			token := template[i+1 : i+1+end]
			name := placeholderName(token)
			if name == "" || next >= len(args) {
				b.WriteString(template[i : i+end+2])
			} else {
				b.WriteString(fmt.Sprint(args[next]))
				props = append(props, Property{Key: name, Value: args[next]})
				next++
			}
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
			}
			b.WriteByte('}')
		default:
			b.WriteByte(c)
		}
	}

	for ; next < len(args); next++ {
		props = append(props, Property{Key: strconv.Itoa(next), Value: args[next]})
	}
	return b.String(), props
}

// placeholderName strips capture hints (@, $) and alignment or format
// suffixes from a placeholder. It returns "" for tokens that are not valid
// placeholder names.
func placeholderName(token string) string {
	token = strings.TrimLeft(token, "@$")
	if i := strings.IndexAny(token, ",:"); i >= 0 {
		token = token[:i]
	}
	if token == "" {
		return ""
	}
	for _, r := range token {
		switch {
		case r == '_' || r == '.' || r == '-':
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return ""
		}
	}
	return token
}
