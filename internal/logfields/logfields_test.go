package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Kind", KeyKind, "files", Kind("files")},
		{"Document", KeyDocument, "ListOfFiles.md", Document("ListOfFiles.md")},
		{"Mode", KeyMode, "repo", Mode("repo")},
		{"Stage", KeyStage, "render", Stage("render")},
		{"Repository", KeyRepo, "wiki", Repository("wiki")},
		{"URL", KeyURL, "http://example", URL("http://example")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Branch", KeyBranch, "master", Branch("master")},
		{"Account", KeyAccount, "vscode-icons", Account("vscode-icons")},
		{"ScheduleName", KeySchedule, "nightly", ScheduleName("nightly")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & bool helpers.
func TestNumericHelpers(t *testing.T) {
	if v := Commits(2); v.Key != KeyCommits || v.Value.Int64() != 2 {
		t.Fatalf("Commits mismatch: %v", v)
	}
	if v := Entries(7); v.Key != KeyEntries {
		t.Fatalf("Entries key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
	if v := Changed(true); v.Key != KeyChanged || !v.Value.Bool() {
		t.Fatalf("Changed mismatch: %v", v)
	}
}

func TestCommitShortens(t *testing.T) {
	if got := Commit("0123456789abcdef").Value.String(); got != "01234567" {
		t.Fatalf("expected short hash, got %s", got)
	}
	if got := Commit("abc").Value.String(); got != "abc" {
		t.Fatalf("expected short input unchanged, got %s", got)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
