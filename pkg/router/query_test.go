package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsEncode_DropsNilAndPreservesOrder(t *testing.T) {
	q := Params{
		P("a", "x"),
		P("b", nil),
		P("c", nil),
		P("d", 1),
	}

	assert.Equal(t, "a=x&d=1", q.Encode())
}

func TestParamsEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Params{}.Encode())
	assert.Equal(t, "", Params(nil).Encode())
	assert.Equal(t, "", Params{P("only", nil)}.Encode())
}

func TestParamsEncode_Escaping(t *testing.T) {
	q := Params{
		P("search", "two words"),
		P("sym", "a&b=c"),
	}

	assert.Equal(t, "search=two+words&sym=a%26b%3Dc", q.Encode())
}

func TestParamsEncode_ValueTypes(t *testing.T) {
	q := Params{
		P("n", 42),
		P("f", true),
		P("s", "str"),
	}

	assert.Equal(t, "n=42&f=true&s=str", q.Encode())
}

func TestParamsEncode_OrderNotSorted(t *testing.T) {
	// Insertion order wins, not lexical order.
	q := Params{
		P("z", 1),
		P("a", 2),
	}

	assert.Equal(t, "z=1&a=2", q.Encode())
}
