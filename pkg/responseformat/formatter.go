// Package responseformat encodes values as JSON or MessagePack, for HTTP
// responses and for files. Undefined statistics are NaN in memory; JSON has
// no NaN, so they are written as null.
package responseformat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Supported formats
const (
	JSON    = "json"
	MsgPack = "msgpack"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct {
	indent string
}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Indent makes JSON output indented by indent per level
func (f *Formatter) Indent(indent string) *Formatter {
	f.indent = indent
	return f
}

// WriteResponse writes data in the format named by the format query
// parameter. JSON is the default; format=msgpack selects MessagePack.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any, headers map[string]string) error {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")

	format := JSON
	if req.URL.Query().Get("format") == MsgPack {
		format = MsgPack
	}

	// encode first so a failure can still become a 500
	var buf bytes.Buffer
	if err := f.Encode(&buf, format, data); err != nil {
		return err
	}

	if format == MsgPack {
		w.Header().Set("Content-Type", "application/x-msgpack")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Encode writes data to w as format
func (f *Formatter) Encode(w io.Writer, format string, data any) error {
	switch format {
	case MsgPack:
		return msgpack.NewEncoder(w).Encode(data)
	case JSON:
		return f.writeJSON(w, data)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// writeJSON round-trips data through MessagePack to get a generic tree keyed
// by the msgpack tags, replaces NaN and Inf with nil, then encodes that.
func (f *Formatter) writeJSON(w io.Writer, data any) error {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(data); err != nil {
		return err
	}

	var tree any
	if err := msgpack.NewDecoder(&buf).Decode(&tree); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	if f.indent != "" {
		enc.SetIndent("", f.indent)
	}
	return enc.Encode(dropNaN(tree))
}

func dropNaN(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	case map[string]any:
		for k, e := range x {
			x[k] = dropNaN(e)
		}
	case []any:
		for i, e := range x {
			x[i] = dropNaN(e)
		}
	}
	return v
}
