package synth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timestampLayout matches ISO-8601 UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Style is the table data that differs between deployment variants.
type Style struct {
	// Section is the payload key holding summary, sample and meta.
	Section string
	// SummaryFormat receives the tool name as its only argument.
	SummaryFormat string
	// IDField names the integer identifier of each sample record.
	IDField string
	// RequestIDPrefix precedes the hexadecimal base hash.
	RequestIDPrefix string
	// Labels is the fixed label set records draw from.
	Labels []string
	// Seed derives the tool seed from the canonical name.
	Seed SeedFunc
	// ElapsedOffset is added to the elapsed metric.
	ElapsedOffset uint32
	// CPUMetric adds a secondary metric derived from the elapsed metric.
	CPUMetric bool
}

// GenericStyle is the style of the 100-tool generic deployment.
func GenericStyle() Style {
	return Style{
		Section:         "faux",
		SummaryFormat:   "This is fake output for %s.",
		IDField:         "id",
		RequestIDPrefix: "req_",
		Labels:          []string{"oak", "river", "cobalt", "ember", "zephyr"},
		Seed:            TrailingDigitsSeed(3),
		ElapsedOffset:   5,
	}
}

// ThemedStyle is the style of the 2000-tool themed deployment.
func ThemedStyle() Style {
	return Style{
		Section:         "result",
		SummaryFormat:   "Synthetic result for %s.",
		IDField:         "hunkId",
		RequestIDPrefix: "run_",
		Labels:          []string{"added", "removed", "modified", "renamed"},
		Seed:            ComponentSumSeed,
		CPUMetric:       true,
	}
}

// Generator builds payloads for one style.
type Generator struct {
	style Style
	now   func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock overrides the wall clock used for payload timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator validates style and returns a generator for it.
func NewGenerator(style Style, opts ...Option) (*Generator, error) {
	if len(style.Labels) == 0 {
		return nil, fmt.Errorf("synth style requires at least one label")
	}
	if style.Seed == nil {
		return nil, fmt.Errorf("synth style requires a seed function")
	}
	if style.Section == "" {
		style.Section = "faux"
	}
	if style.IDField == "" {
		style.IDField = "id"
	}
	g := &Generator{style: style, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate builds the payload for toolName called with raw arguments. It
// never fails and does not check toolName against any catalog.
func (g *Generator) Generate(toolName string, raw json.RawMessage) Payload {
	args := parseArguments(raw)
	base := baseHash(g.ToolSeed(toolName), args.seed)

	sample := make([]Record, args.count)
	for i := range sample {
		v := sampleHash(base, i)
		sample[i] = Record{
			ID:      v % 100000,
			Score:   Score(float64(v%10000) / 10000),
			Label:   g.style.Labels[v%uint32(len(g.style.Labels))],
			idField: g.style.IDField,
		}
	}

	elapsed := base % 250
	meta := Meta{
		RequestID:     g.style.RequestIDPrefix + strconv.FormatUint(uint64(base), 16),
		ElapsedMetric: elapsed + g.style.ElapsedOffset,
	}
	if g.style.CPUMetric {
		cpu := elapsed / 20
		meta.CPUMetric = &cpu
	}

	return Payload{
		Tool:              toolName,
		Timestamp:         g.now().UTC().Format(timestampLayout),
		ReceivedArguments: args.raw,
		Section:           g.style.Section,
		Summary:           fmt.Sprintf(g.style.SummaryFormat, toolName),
		Sample:            sample,
		Meta:              meta,
	}
}

// ToolSeed returns the numeric seed of toolName after variant
// canonicalization.
func (g *Generator) ToolSeed(toolName string) uint32 {
	canonical, variant := Canonical(toolName)
	return g.style.Seed(canonical) + variant
}
