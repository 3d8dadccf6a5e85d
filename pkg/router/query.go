package router

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value interface{}
}

// Params is an ordered list of query parameters. Unlike url.Values, encoding
// preserves insertion order. Parameters whose value is nil are silently
// dropped; the literal strings "nil" or "null" are never serialized for them.
type Params []Param

// P is a convenience constructor for a Param.
func P(key string, value interface{}) Param {
	return Param{Key: key, Value: value}
}

// Encode serializes the parameters into a query string without the leading
// "?". Nil-valued parameters are dropped; everything else is formatted with
// its natural string representation and percent-escaped.
func (p Params) Encode() string {
	var b strings.Builder
	for _, param := range p {
		if param.Value == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fmt.Sprintf("%v", param.Value)))
	}
	return b.String()
}
