package catalog

import "fmt"

// DescribeFunc renders the description of the tool at index.
type DescribeFunc func(index int, component string) string

// Variant is the table data behind one deployment. Everything that differs
// between deployments lives here; the addressing algorithm does not.
type Variant struct {
	Name      string
	Size      int
	Namer     Namer
	Describes [FlavorCount]DescribeFunc
}

const (
	// GenericName identifies the 100-tool generic deployment.
	GenericName = "generic"
	// ThemedName identifies the 2000-tool themed deployment.
	ThemedName = "themed"
)

// Generic is the 100-tool deployment with fake_tool_NNN names.
func Generic() Variant {
	var describes [FlavorCount]DescribeFunc
	for i := range describes {
		describes[i] = genericDescription
	}
	return Variant{
		Name:      GenericName,
		Size:      100,
		Namer:     PaddedNamer{Stem: "fake_tool_", Width: 3},
		Describes: describes,
	}
}

func genericDescription(index int, _ string) string {
	return fmt.Sprintf("A fake tool (#%d) that returns faux data. Signature flavor %d/10.", index, Flavor(index)+1)
}

// Themed is the 2000-tool deployment named after integrations and operations.
func Themed() Variant {
	return Variant{
		Name:      ThemedName,
		Size:      2000,
		Namer:     TableNamer{Prefixes: themedPrefixes, Operations: themedOperations},
		Describes: themedDescribes,
	}
}

var themedPrefixes = []string{
	"git", "jira", "slack", "docker", "k8s",
	"s3", "redis", "postgres", "kafka", "stripe",
	"github", "notion", "figma", "sentry", "datadog",
	"vault", "consul", "nginx", "grafana", "zendesk",
}

var themedOperations = []string{
	"list", "get", "create", "update", "delete",
	"search", "sync", "export", "import", "archive",
	"restore", "tag", "untag", "watch", "scan",
	"audit", "rotate", "deploy", "rollback", "validate",
	"summarize", "diff", "merge", "lock", "unlock",
}

var themedDescribes = [FlavorCount]DescribeFunc{
	themed("%s: combines two numbers with an arithmetic operator (synthetic tool #%d)."),
	themed("%s: runs a paginated query and returns matching records (synthetic tool #%d)."),
	themed("%s: looks up a user by identifier with optional tag filters (synthetic tool #%d)."),
	themed("%s: walks a pretend path with recursion controls (synthetic tool #%d)."),
	themed("%s: fetches a batch of records by id (synthetic tool #%d)."),
	themed("%s: accepts a nested payload and returns a traced receipt (synthetic tool #%d)."),
	themed("%s: transforms a block of text (synthetic tool #%d)."),
	themed("%s: searches around a coordinate within a radius (synthetic tool #%d)."),
	themed("%s: prices an amount in a supported currency (synthetic tool #%d)."),
	themed("%s: emits seeded synthetic samples (synthetic tool #%d)."),
}

func themed(format string) DescribeFunc {
	return func(index int, component string) string {
		return fmt.Sprintf(format, component, index)
	}
}

// VariantByName returns the shipped variant called name.
func VariantByName(name string) (Variant, bool) {
	switch name {
	case GenericName:
		return Generic(), true
	case ThemedName:
		return Themed(), true
	default:
		return Variant{}, false
	}
}

// VariantNames lists the shipped variants.
func VariantNames() []string {
	return []string{GenericName, ThemedName}
}
