package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// EncodeJSON writes v to w without HTML escaping, so URLs inside credentials
// stay readable. indent selects the two-space layout used on terminals.
func EncodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintJSON writes v to stdout as indented JSON.
func PrintJSON(v any) {
	if err := EncodeJSON(os.Stdout, v, true); err != nil {
		fmt.Fprintf(os.Stderr, "JSON encoding error: %v\n", err)
	}
}
