package output

import (
	"encoding/json"
	"io"
)

// FormatJSON writes v as indented JSON.
func FormatJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
