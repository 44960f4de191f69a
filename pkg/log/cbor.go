package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Property values are stored the way encodableValue leaves them, so the
// modes aim to decode them back as the same Go types where CBOR allows:
// times carry tag 0 and decode as time.Time, and integers decode as int64
// rather than uint64 (big.Int beyond the int64 range). Durations come back
// as int64 nanoseconds.
var (
	recordEncMode = mustEncMode(cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
		TimeTag:       cbor.EncTagRequired,
	})

	// FileLogger never writes indefinite-length items.
	recordDecMode = mustDecMode(cbor.DecOptions{
		IndefLength:  cbor.IndefLengthForbidden,
		IntDec:       cbor.IntDecConvertSignedOrBigInt,
		TimeTagToAny: cbor.TimeTagToTime,
	})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: invalid record encoder options: %v", err))
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: invalid record decoder options: %v", err))
	}
	return dm
}

// EncodeRecord encodes r as a single CBOR item.
func EncodeRecord(r Record) ([]byte, error) {
	return recordEncMode.Marshal(r)
}

// DecodeRecord decodes a single CBOR item into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := recordDecMode.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// NewEncoder returns a stream encoder for records. FileLogger appends one
// item per record.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return recordEncMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder that reads records written by
// NewEncoder.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return recordDecMode.NewDecoder(r)
}
