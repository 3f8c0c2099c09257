// Package runtime generates the JavaScript namespace object translated programs run
// against: the flat variable store, the division guard, and one function per builtin.
package runtime

import (
	"bytes"
	"fmt"
	"strconv"

	"djinn/compiler-go/pkg/catalog"
)

const (
	ScopeStore = "__scope"
	DivGuard   = "__checkDivByZero"
)

// Prelude returns the source defining namespace for the builtins in cat.
func Prelude(namespace string, cat *catalog.Catalog) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "var %s = {\n", namespace)
	fmt.Fprintf(&buf, "  %s: {},\n", ScopeStore)
	fmt.Fprintf(&buf, "  %s: function (value) {\n", DivGuard)
	fmt.Fprintf(&buf, "    if (value === 0) {\n")
	fmt.Fprintf(&buf, "      throw new Error(\"Division by zero\");\n")
	fmt.Fprintf(&buf, "    }\n")
	fmt.Fprintf(&buf, "    return value;\n")
	fmt.Fprintf(&buf, "  }")
	for _, fn := range cat.Functions() {
		body := fn.JS
		if body == "" {
			body = fmt.Sprintf("function () { throw new Error(%s); }", strconv.Quote("Builtin "+fn.Name+" has no runtime implementation"))
		}
		fmt.Fprintf(&buf, ",\n  %s: %s", fn.Name, body)
	}
	fmt.Fprintf(&buf, "\n};\n")
	return buf.Bytes()
}
