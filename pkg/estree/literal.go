package estree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Lit builds a literal whose raw text is the JavaScript spelling of value.
func Lit(value any) *Literal {
	return NewLiteral(value, RawValue(value))
}

// RawValue spells a literal value the way JSON.stringify would.
func RawValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatNumber(v)
	case string:
		return quoteString(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// JavaScript drops the exponent's leading zero: 1e-7, not 1e-07.
	text := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, ok := strings.Cut(text, "e")
	if !ok {
		return text
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

func quoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

// Member builds the dotted access object.property.
func Member(object Expression, property string) *MemberExpression {
	return NewMemberExpression(object, ID(property), false)
}

// Index builds the computed access object["key"].
func Index(object Expression, key string) *MemberExpression {
	return NewMemberExpression(object, Lit(key), true)
}
