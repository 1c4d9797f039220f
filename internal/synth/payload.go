package synth

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Payload is the synthetic response for one tool call.
type Payload struct {
	Tool              string
	Timestamp         string
	ReceivedArguments json.RawMessage
	Section           string
	Summary           string
	Sample            []Record
	Meta              Meta
}

// Record is one synthetic sample row.
type Record struct {
	ID    uint32
	Score Score
	Label string

	idField string
}

// Meta carries the request identifier and timing-like metrics.
type Meta struct {
	RequestID     string  `json:"requestId"`
	ElapsedMetric uint32  `json:"elapsedMs"`
	CPUMetric     *uint32 `json:"cpuMs,omitempty"`
}

// Score is a value in [0,1) that always renders with four decimal digits.
type Score float64

// MarshalJSON renders the score with exactly four decimals.
func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(s), 'f', 4, 64)), nil
}

// MarshalJSON renders the record with the id field name chosen by its style.
func (r Record) MarshalJSON() ([]byte, error) {
	idField := r.idField
	if idField == "" {
		idField = "id"
	}
	var obj orderedObject
	obj.add(idField, r.ID)
	obj.add("score", r.Score)
	obj.add("label", r.Label)
	return obj.MarshalJSON()
}

// MarshalJSON renders the payload with a stable key order and the section
// name chosen by its style.
func (p Payload) MarshalJSON() ([]byte, error) {
	received := p.ReceivedArguments
	if len(received) == 0 {
		received = emptyObject
	}
	sample := p.Sample
	if sample == nil {
		sample = []Record{}
	}

	var section orderedObject
	section.add("summary", p.Summary)
	section.add("sample", sample)
	section.add("meta", p.Meta)

	var obj orderedObject
	obj.add("tool", p.Tool)
	obj.add("timestamp", p.Timestamp)
	obj.add("receivedArguments", received)
	obj.add(p.Section, section)
	return obj.MarshalJSON()
}

// orderedObject is a JSON object whose keys keep insertion order.
type orderedObject struct {
	keys   []string
	values []any
}

func (o *orderedObject) add(key string, value any) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := marshalRaw(key, "")
		if err != nil {
			return nil, err
		}
		encodedValue, err := marshalRaw(o.values[i], "")
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndent encodes v with two-space indentation. Strings and echoed
// arguments keep <, > and & as written.
func MarshalIndent(v any) ([]byte, error) {
	return marshalRaw(v, "  ")
}

func marshalRaw(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
