package catalog

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/fauxtools/internal/platform/errors"
)

func mustBuild(t *testing.T, v Variant) *Catalog {
	t.Helper()
	c, err := Build(v)
	if err != nil {
		t.Fatalf("build %s: %v", v.Name, err)
	}
	return c
}

func TestBuildSizes(t *testing.T) {
	tests := []struct {
		variant Variant
		size    int
	}{
		{Generic(), 100},
		{Themed(), 2000},
	}
	for _, tt := range tests {
		t.Run(tt.variant.Name, func(t *testing.T) {
			c := mustBuild(t, tt.variant)
			if c.Len() != tt.size {
				t.Fatalf("len = %d, want %d", c.Len(), tt.size)
			}
			if c.Variant() != tt.variant.Name {
				t.Fatalf("variant = %q, want %q", c.Variant(), tt.variant.Name)
			}
			seen := make(map[string]bool, tt.size)
			i := 0
			for tool := range c.All() {
				i++
				if tool.Index != i {
					t.Fatalf("tool at position %d has index %d", i, tool.Index)
				}
				if seen[tool.Name] {
					t.Fatalf("duplicate name %q", tool.Name)
				}
				seen[tool.Name] = true
				if tool.Name != strings.ToLower(tool.Name) {
					t.Fatalf("name %q is not lowercase", tool.Name)
				}
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, v := range []Variant{Generic(), Themed()} {
		a := mustBuild(t, v)
		b := mustBuild(t, v)
		for i := range a.Len() {
			ta, _ := a.At(i)
			tb, _ := b.At(i)
			if ta.Name != tb.Name || ta.Description != tb.Description {
				t.Fatalf("%s: tool %d differs between builds", v.Name, i)
			}
			sa, _ := json.Marshal(ta.InputSchema())
			sb, _ := json.Marshal(tb.InputSchema())
			if string(sa) != string(sb) {
				t.Fatalf("%s: schema %d differs between builds", v.Name, i)
			}
		}
	}
}

func TestGenericNamesAndDescriptions(t *testing.T) {
	c := mustBuild(t, Generic())

	first, _ := c.At(0)
	if first.Name != "fake_tool_001" {
		t.Fatalf("first name = %q", first.Name)
	}
	last, _ := c.At(99)
	if last.Name != "fake_tool_100" {
		t.Fatalf("last name = %q", last.Name)
	}
	want := "A fake tool (#1) that returns faux data. Signature flavor 2/10."
	if first.Description != want {
		t.Fatalf("description = %q, want %q", first.Description, want)
	}
	tenth, _ := c.Lookup("fake_tool_010")
	if !strings.HasSuffix(tenth.Description, "Signature flavor 1/10.") {
		t.Fatalf("description = %q", tenth.Description)
	}
}

func TestThemedNames(t *testing.T) {
	c := mustBuild(t, Themed())
	tests := map[int]string{
		1:    "jira_list",
		19:   "zendesk_list",
		20:   "git_get",
		499:  "zendesk_unlock",
		500:  "git_list_v1",
		501:  "jira_list_v1",
		1999: "zendesk_unlock_v3",
		2000: "git_list_v4",
	}
	for index, want := range tests {
		tool, ok := c.At(index - 1)
		if !ok {
			t.Fatalf("missing tool %d", index)
		}
		if tool.Name != want {
			t.Fatalf("tool %d name = %q, want %q", index, tool.Name, want)
		}
	}
}

func TestThemedDescriptionUsesComponent(t *testing.T) {
	c := mustBuild(t, Themed())
	tool, _ := c.Lookup("slack_search")
	if !strings.HasPrefix(tool.Description, "Slack search: ") {
		t.Fatalf("description = %q", tool.Description)
	}
	if !strings.Contains(tool.Description, fmt.Sprintf("#%d", tool.Index)) {
		t.Fatalf("description %q does not carry index %d", tool.Description, tool.Index)
	}
}

func TestSchemaFollowsFlavor(t *testing.T) {
	c := mustBuild(t, Generic())
	tests := []struct {
		name     string
		required []string
		property string
	}{
		// Flavor is index mod 10, so the numeric pair lands on fake_tool_010, not fake_tool_001.
		{"fake_tool_010", []string{"a", "b"}, "op"},
		{"fake_tool_001", []string{"query"}, "limit"},
		{"fake_tool_002", []string{"userId"}, "tags"},
		{"fake_tool_003", []string{"path"}, "depth"},
		{"fake_tool_004", []string{"ids"}, "mode"},
		{"fake_tool_005", []string{"payload"}, "traceId"},
		{"fake_tool_006", []string{"text"}, "transform"},
		{"fake_tool_007", []string{"lat", "lon"}, "radiusKm"},
		{"fake_tool_008", []string{"amount"}, "currency"},
		{"fake_tool_009", nil, "kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, ok := c.Lookup(tt.name)
			if !ok {
				t.Fatalf("missing %s", tt.name)
			}
			if tool.Flavor() != tool.Index%FlavorCount {
				t.Fatalf("flavor = %d for index %d", tool.Flavor(), tool.Index)
			}
			schema := tool.InputSchema()
			if schema.Type != "object" {
				t.Fatalf("type = %q", schema.Type)
			}
			if !slices.Equal(schema.Required, tt.required) {
				t.Fatalf("required = %v, want %v", schema.Required, tt.required)
			}
			if _, ok := schema.Properties[tt.property]; !ok {
				t.Fatalf("missing property %q", tt.property)
			}
			if schema.AdditionalProperties == nil {
				t.Fatal("expected additionalProperties to be closed")
			}
		})
	}
}

func TestSchemasAreSharedAcrossVariants(t *testing.T) {
	generic := mustBuild(t, Generic())
	themed := mustBuild(t, Themed())
	for i := range generic.Len() {
		g, _ := generic.At(i)
		th, _ := themed.At(i)
		gs, _ := json.Marshal(g.InputSchema())
		ts, _ := json.Marshal(th.InputSchema())
		if string(gs) != string(ts) {
			t.Fatalf("schema for index %d differs between variants", i+1)
		}
	}
}

func TestSeededSampleDefault(t *testing.T) {
	c := mustBuild(t, Generic())
	tool, _ := c.Lookup("fake_tool_019")
	seed := tool.InputSchema().Properties["seed"]
	if string(seed.Default) != "25403" {
		t.Fatalf("seed default = %s, want 25403", seed.Default)
	}
}

func TestSchemasResolve(t *testing.T) {
	c := mustBuild(t, Generic())
	for i := 1; i <= FlavorCount; i++ {
		tool, _ := c.At(i - 1)
		if _, err := tool.InputSchema().Resolve(nil); err != nil {
			t.Fatalf("%s: resolve schema: %v", tool.Name, err)
		}
	}
}

func TestSchemaValidatesArguments(t *testing.T) {
	c := mustBuild(t, Generic())
	tool, _ := c.Lookup("fake_tool_010")
	resolved, err := tool.InputSchema().Resolve(nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := resolved.Validate(map[string]any{"a": 1.0, "b": 2.0}); err != nil {
		t.Fatalf("expected valid arguments: %v", err)
	}
	if err := resolved.Validate(map[string]any{"a": 1.0}); err == nil {
		t.Fatal("expected missing b to fail validation")
	}
	if err := resolved.Validate(map[string]any{"a": 1.0, "b": 2.0, "c": 3.0}); err == nil {
		t.Fatal("expected extra property to fail validation")
	}
}

func TestInputSchemaIsACopy(t *testing.T) {
	c := mustBuild(t, Generic())
	tool, _ := c.Lookup("fake_tool_010")

	schema := tool.InputSchema()
	schema.Required = append(schema.Required, "mutated")
	schema.Properties["op"].Enum = nil
	delete(schema.Properties, "a")

	again, _ := c.Lookup("fake_tool_010")
	fresh := again.InputSchema()
	if slices.Contains(fresh.Required, "mutated") {
		t.Fatal("catalog schema required set was mutated")
	}
	if len(fresh.Properties["op"].Enum) != 4 {
		t.Fatal("catalog schema enum was mutated")
	}
	if _, ok := fresh.Properties["a"]; !ok {
		t.Fatal("catalog schema property was removed")
	}
}

func TestLookup(t *testing.T) {
	c := mustBuild(t, Generic())
	if _, ok := c.Lookup("fake_tool_050"); !ok {
		t.Fatal("expected fake_tool_050")
	}
	for _, name := range []string{"not_a_real_tool", "fake_tool_000", "fake_tool_101", "FAKE_TOOL_001", ""} {
		if c.Contains(name) {
			t.Fatalf("unexpected tool %q", name)
		}
	}
	if _, ok := c.At(-1); ok {
		t.Fatal("expected At(-1) to miss")
	}
	if _, ok := c.At(100); ok {
		t.Fatal("expected At(100) to miss")
	}
}

func TestPage(t *testing.T) {
	c := mustBuild(t, Themed())

	var names []string
	offset := 0
	pages := 0
	for offset >= 0 {
		var page []Tool
		page, offset = c.Page(offset, 300)
		pages++
		for _, tool := range page {
			names = append(names, tool.Name)
		}
	}
	if pages != 7 {
		t.Fatalf("pages = %d, want 7", pages)
	}
	if len(names) != c.Len() {
		t.Fatalf("listed %d tools, want %d", len(names), c.Len())
	}
	for i, name := range names {
		tool, _ := c.At(i)
		if tool.Name != name {
			t.Fatalf("position %d = %q, want %q", i, name, tool.Name)
		}
	}

	all, next := c.Page(0, 0)
	if len(all) != c.Len() || next != -1 {
		t.Fatalf("unbounded page = %d tools, next %d", len(all), next)
	}
	if page, next := c.Page(c.Len(), 10); page != nil || next != -1 {
		t.Fatalf("page past end = %v, next %d", page, next)
	}
}

func TestBuildRejectsInvalidVariants(t *testing.T) {
	valid := Generic()

	zero := valid
	zero.Size = 0

	noNamer := valid
	noNamer.Namer = nil

	missingDescribe := valid
	missingDescribe.Describes[3] = nil

	emptyTables := Themed()
	emptyTables.Namer = TableNamer{Prefixes: []string{"git"}}

	upper := Themed()
	upper.Namer = TableNamer{Prefixes: []string{"Git"}, Operations: []string{"list"}}

	collision := valid
	collision.Namer = fixedNamer("same")

	tests := map[string]Variant{
		"zero size":        zero,
		"no namer":         noNamer,
		"missing describe": missingDescribe,
		"empty tables":     emptyTables,
		"uppercase table":  upper,
		"duplicate names":  collision,
	}
	for name, v := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Build(v)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, apperrors.New(apperrors.CodeCatalogInvalid, "")) {
				t.Fatalf("expected catalog invalid code, got %v", err)
			}
		})
	}
}

func TestThemedTablesSpanCatalog(t *testing.T) {
	n, ok := Themed().Namer.(TableNamer)
	if !ok {
		t.Fatal("themed variant should use a table namer")
	}
	if n.Space() != 500 {
		t.Fatalf("space = %d, want 500", n.Space())
	}
}

func TestVariantByName(t *testing.T) {
	for _, name := range VariantNames() {
		v, ok := VariantByName(name)
		if !ok || v.Name != name {
			t.Fatalf("VariantByName(%q) = %v, %v", name, v.Name, ok)
		}
	}
	if _, ok := VariantByName("nope"); ok {
		t.Fatal("expected unknown variant to miss")
	}
}

type fixedNamer string

func (n fixedNamer) Name(int) string      { return string(n) }
func (n fixedNamer) Component(int) string { return string(n) }
