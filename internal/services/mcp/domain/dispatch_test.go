package domain

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fauxtools/internal/catalog"
	apperrors "github.com/louisbranch/fauxtools/internal/platform/errors"
	"github.com/louisbranch/fauxtools/internal/synth"
)

var fixedClock = func() time.Time {
	return time.Date(2026, 10, 19, 8, 30, 0, 123_000_000, time.UTC)
}

func newTestDispatcher(t *testing.T, p Profile) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(p, synth.WithClock(fixedClock))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) != 1 {
		t.Fatalf("expected a single content item, got %+v", result)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestCallKnownToolGeneric(t *testing.T) {
	d := newTestDispatcher(t, GenericProfile())

	result, err := d.Call(context.Background(), "fake_tool_001", json.RawMessage(`{"seed":7,"count":3}`))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result")
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "{\n  \"tool\": \"fake_tool_001\",\n  \"timestamp\": \"2026-10-19T08:30:00.123Z\",") {
		t.Fatalf("unexpected payload prefix:\n%s", text)
	}
	if !strings.Contains(text, "\"score\": 0.2049") {
		t.Fatalf("expected four-decimal score in payload:\n%s", text)
	}

	var doc struct {
		Tool string `json:"tool"`
		Faux struct {
			Summary string `json:"summary"`
			Sample  []struct {
				ID    int     `json:"id"`
				Score float64 `json:"score"`
				Label string  `json:"label"`
			} `json:"sample"`
			Meta struct {
				RequestID string `json:"requestId"`
				ElapsedMs int    `json:"elapsedMs"`
			} `json:"meta"`
		} `json:"faux"`
		ReceivedArguments map[string]any `json:"receivedArguments"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(doc.Faux.Sample) != 3 || doc.Faux.Sample[0].ID != 22049 || doc.Faux.Sample[2].Label != "oak" {
		t.Fatalf("unexpected sample %+v", doc.Faux.Sample)
	}
	if doc.Faux.Meta.RequestID != "req_569680" || doc.Faux.Meta.ElapsedMs != 129 {
		t.Fatalf("unexpected meta %+v", doc.Faux.Meta)
	}
	if doc.ReceivedArguments["seed"] != 7.0 {
		t.Fatalf("unexpected received arguments %v", doc.ReceivedArguments)
	}
}

func TestCallIsDeterministic(t *testing.T) {
	d := newTestDispatcher(t, GenericProfile())
	args := json.RawMessage(`{"a":1,"b":2,"seed":42}`)

	first, err := d.Call(context.Background(), "fake_tool_010", args)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := d.Call(context.Background(), "fake_tool_010", args)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if resultText(t, first) != resultText(t, second) {
		t.Fatal("expected identical payloads with a fixed clock")
	}
}

func TestCallUnknownTool(t *testing.T) {
	tests := []struct {
		name       string
		profile    Profile
		diagnostic string
	}{
		{name: "generic", profile: GenericProfile()},
		{name: "themed", profile: ThemedProfile(), diagnostic: "E_TOOL_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t, tt.profile)
			result, err := d.Call(context.Background(), "not_a_real_tool", nil)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected error-flagged result")
			}
			text := resultText(t, result)
			var doc map[string]string
			if err := json.Unmarshal([]byte(text), &doc); err != nil {
				t.Fatalf("decode error document: %v", err)
			}
			if doc["error"] != "Unknown tool: not_a_real_tool" {
				t.Fatalf("error = %q", doc["error"])
			}
			if doc["hint"] != UnknownToolHint {
				t.Fatalf("hint = %q", doc["hint"])
			}
			code, ok := doc["diagnosticCode"]
			if tt.diagnostic == "" && ok {
				t.Fatalf("unexpected diagnostic code %q", code)
			}
			if code != tt.diagnostic {
				t.Fatalf("diagnostic code = %q, want %q", code, tt.diagnostic)
			}
			if !strings.HasPrefix(text, "{\n  \"error\": ") {
				t.Fatalf("expected two-space indented body, got:\n%s", text)
			}
		})
	}
}

func TestCallRespectsCancelledContext(t *testing.T) {
	d := newTestDispatcher(t, GenericProfile())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Call(ctx, "fake_tool_001", nil); !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestHandlerReadsRequestParams(t *testing.T) {
	d := newTestDispatcher(t, ThemedProfile())
	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{
		Name:      "slack_search_v3",
		Arguments: json.RawMessage(`{"count":2}`),
	}}
	result, err := d.Handler()(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "\"requestId\": \"run_b7e5525\"") {
		t.Fatalf("unexpected payload:\n%s", text)
	}
	if !strings.Contains(text, "\"hunkId\": 36204") {
		t.Fatalf("expected themed id field:\n%s", text)
	}
}

func TestCallParamsHandlesMissingParams(t *testing.T) {
	name, args := CallParams(&mcp.CallToolRequest{})
	if name != "" || args != nil {
		t.Fatalf("CallParams = %q, %s", name, args)
	}
}

func TestListedTool(t *testing.T) {
	d := newTestDispatcher(t, GenericProfile())
	tool, ok := d.Catalog().Lookup("fake_tool_010")
	if !ok {
		t.Fatal("missing fake_tool_010")
	}
	listed := ListedTool(tool)
	if listed.Name != tool.Name || listed.Description != tool.Description {
		t.Fatalf("unexpected descriptor %+v", listed)
	}
	if listed.InputSchema == nil {
		t.Fatal("expected input schema")
	}
}

func TestProfileByName(t *testing.T) {
	for _, name := range catalog.VariantNames() {
		p, err := ProfileByName(name)
		if err != nil {
			t.Fatalf("ProfileByName(%q): %v", name, err)
		}
		if p.Variant.Name != name {
			t.Fatalf("profile variant = %q, want %q", p.Variant.Name, name)
		}
	}
	_, err := ProfileByName("nope")
	if !stderrors.Is(err, apperrors.New(apperrors.CodeVariantUnknown, "")) {
		t.Fatalf("expected variant unknown error, got %v", err)
	}
}

func TestCallEchoesMarkupUnescaped(t *testing.T) {
	d := newTestDispatcher(t, GenericProfile())

	known, err := d.Call(context.Background(), "fake_tool_001", json.RawMessage(`{"query":"<b>&</b>"}`))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if text := resultText(t, known); !strings.Contains(text, `"query": "<b>&</b>"`) {
		t.Fatalf("expected arguments echoed as sent, got:\n%s", text)
	}

	unknown, err := d.Call(context.Background(), "<nope>", nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if text := resultText(t, unknown); !strings.Contains(text, `"error": "Unknown tool: <nope>"`) {
		t.Fatalf("expected tool name unescaped, got:\n%s", text)
	}
}
