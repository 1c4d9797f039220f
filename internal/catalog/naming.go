package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Namer derives tool names from 1-based indices.
type Namer interface {
	// Name returns the unique tool name for index.
	Name(index int) string
	// Component returns a human-readable component label for index.
	Component(index int) string
}

// PaddedNamer appends a zero-padded index to a fixed stem.
type PaddedNamer struct {
	Stem  string
	Width int
}

// Name implements Namer.
func (n PaddedNamer) Name(index int) string {
	return fmt.Sprintf("%s%0*d", n.Stem, n.Width, index)
}

// Component implements Namer.
func (n PaddedNamer) Component(index int) string {
	return fmt.Sprintf("#%d", index)
}

// TableNamer combines a prefix table and an operation table. The prefix is
// addressed by index mod |prefixes|, the operation by index / |prefixes|
// (wrapped), and once both tables are exhausted a "_v<k>" suffix with
// k = index / (|prefixes|*|operations|) keeps names unique.
type TableNamer struct {
	Prefixes   []string
	Operations []string
}

// Name implements Namer.
func (n TableNamer) Name(index int) string {
	prefix, operation, variant := n.address(index)
	name := prefix + "_" + operation
	if variant > 0 {
		name = fmt.Sprintf("%s_v%d", name, variant)
	}
	return name
}

// Component implements Namer.
func (n TableNamer) Component(index int) string {
	prefix, operation, _ := n.address(index)
	return cases.Title(language.English).String(prefix) + " " + operation
}

// Space is the number of names available before variant suffixes kick in.
func (n TableNamer) Space() int {
	return len(n.Prefixes) * len(n.Operations)
}

func (n TableNamer) address(index int) (string, string, int) {
	p := len(n.Prefixes)
	o := len(n.Operations)
	prefix := n.Prefixes[index%p]
	operation := n.Operations[(index/p)%o]
	return prefix, operation, index / (p * o)
}

func (n TableNamer) validate() error {
	if len(n.Prefixes) == 0 || len(n.Operations) == 0 {
		return fmt.Errorf("table namer requires prefixes and operations")
	}
	for _, word := range append(append([]string(nil), n.Prefixes...), n.Operations...) {
		if word == "" || word != strings.ToLower(word) {
			return fmt.Errorf("table word %q must be non-empty lowercase", word)
		}
	}
	return nil
}
