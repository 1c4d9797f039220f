package synth

import (
	"bytes"
	"encoding/json"
	"math"
)

const (
	// DefaultSampleCount is used when the caller omits count or sends one out of range.
	DefaultSampleCount = 5
	// MaxSampleCount bounds the number of records a single call may request.
	MaxSampleCount = 1000
)

var emptyObject = json.RawMessage(`{}`)

// arguments is the tolerant view of a tools/call argument object. Nothing here
// fails: absent or malformed fields fall back to defaults.
type arguments struct {
	raw   json.RawMessage
	seed  uint32
	count int
}

func parseArguments(raw json.RawMessage) arguments {
	args := arguments{raw: emptyObject, count: DefaultSampleCount}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return args
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return args
	}
	args.raw = json.RawMessage(trimmed)

	if n, ok := fields["seed"].(json.Number); ok {
		args.seed = seedFromNumber(n)
	}
	if n, ok := fields["count"].(json.Number); ok {
		if count, ok := countFromNumber(n); ok {
			args.count = count
		}
	}
	return args
}

// seedFromNumber truncates n to an integer and wraps it into uint32 range.
// Values beyond int64 range seed to 0.
func seedFromNumber(n json.Number) uint32 {
	if i, err := n.Int64(); err == nil {
		return uint32(i)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}

func countFromNumber(n json.Number) (int, bool) {
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if f < 0 || f > MaxSampleCount {
		return 0, false
	}
	return int(f), true
}
