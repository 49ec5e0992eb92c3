package export

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/hydrostats/internal/hydro"
	"github.com/chrissnell/hydrostats/pkg/responseformat"
)

// Bundle formats
const (
	FormatJSON    = responseformat.JSON
	FormatMsgPack = responseformat.MsgPack
)

// WriteBundle encodes the full results of every station. MessagePack keeps
// NaN as is; in JSON undefined statistics become null.
func WriteBundle(w io.Writer, format string, results []*hydro.Result) error {
	return responseformat.NewFormatter().Indent("  ").Encode(w, format, results)
}

// ReadBundle decodes a MessagePack bundle written by WriteBundle
func ReadBundle(r io.Reader) ([]*hydro.Result, error) {
	var results []*hydro.Result
	if err := msgpack.NewDecoder(r).Decode(&results); err != nil {
		return nil, err
	}
	return results, nil
}
