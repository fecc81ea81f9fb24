package main

import (
	"encoding/json"
	"strings"
	"testing"

	"modgraph/internal/errors"
)

func TestFormatResponse_JSON(t *testing.T) {
	resp := &PathResponseCLI{From: "a", To: "c", Found: true, Path: []string{"a", "b", "c"}, Length: 2}

	result, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, `"from": "a"`) {
		t.Error("JSON output missing from")
	}
	if !strings.Contains(result, `"length": 2`) {
		t.Error("JSON output missing length")
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	_, err := FormatResponse(map[string]string{"key": "value"}, "xml")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatHuman(t *testing.T) {
	tests := []struct {
		name string
		resp interface{}
		want string
	}{
		{
			name: "path found",
			resp: &PathResponseCLI{From: "a", To: "c", Found: true, Path: []string{"a", "b", "c"}, Length: 2},
			want: "a -> b -> c",
		},
		{
			name: "path missing",
			resp: &PathResponseCLI{From: "a", To: "z"},
			want: "No path from a to z",
		},
		{
			name: "kpaths",
			resp: &KPathsResponseCLI{From: "a", To: "c", K: 3, Paths: []PathEntryCLI{{Nodes: []string{"a", "c"}, Length: 1}}},
			want: "1. [1] a -> c",
		},
		{
			name: "cycles close the loop",
			resp: &CyclesResponseCLI{Node: "ui", Cycles: [][]string{{"ui", "web"}}, Count: 1},
			want: "ui -> web -> ui",
		},
		{
			name: "acyclic node",
			resp: &CyclesResponseCLI{Node: "app", Cycles: [][]string{}},
			want: "app is not on any cycle",
		},
		{
			name: "cyclic component marked",
			resp: &SCCResponseCLI{Components: []ComponentCLI{{Index: 0, Nodes: []string{"ui", "web"}, Cyclic: true}}},
			want: "*[0] ui, web",
		},
		{
			name: "unmapped root",
			resp: &RootsResponseCLI{Matches: []RootMatchCLI{{Path: "x/y.go"}, {Path: "main.go", Mapped: true, ModuleID: "."}}},
			want: "x/y.go: not mapped\nmain.go: . (.)",
		},
		{
			name: "no snapshots",
			resp: &SnapshotListResponseCLI{},
			want: "No snapshots",
		},
		{
			name: "unknown type falls back to JSON",
			resp: &SnapshotDeleteResponseCLI{ID: "s1", Deleted: true},
			want: `"deleted": true`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatResponse(tt.resp, FormatHuman)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	cause := errors.New(errors.InternalError, "inner", nil)
	err := errors.New(errors.NodeNotFound, "node not found", cause)

	out := formatError(err, FormatJSON)
	var decoded struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	if jsonErr := json.Unmarshal([]byte(out), &decoded); jsonErr != nil {
		t.Fatalf("error output is not JSON: %v\n%s", jsonErr, out)
	}
	if decoded.Code != "NODE_NOT_FOUND" {
		t.Errorf("code = %q", decoded.Code)
	}
	if !strings.Contains(decoded.Details["cause"], "inner") {
		t.Errorf("details = %v, want the cause", decoded.Details)
	}

	human := formatError(errors.New(errors.SnapshotNotFound, "snapshot not found", nil), FormatHuman)
	if !strings.HasPrefix(human, "Error: [SNAPSHOT_NOT_FOUND]") {
		t.Errorf("human error = %q", human)
	}
	if !strings.Contains(human, "try: modgraph snapshot list") {
		t.Errorf("human error should suggest a fix, got %q", human)
	}
}
