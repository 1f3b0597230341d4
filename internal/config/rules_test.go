package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadRules_Defaults(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `[/tmp/scratch/*]
ref_time = 3 days
`)
	sels, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(sels) != 1 {
		t.Fatalf("got %d selections, want 1", len(sels))
	}
	sel := sels[0]
	if sel.Pattern != "/tmp/scratch/*" {
		t.Errorf("Pattern = %q", sel.Pattern)
	}
	if sel.RefTime != "3 days" {
		t.Errorf("RefTime = %q", sel.RefTime)
	}
	if !sel.RemoveDirs || !sel.RemoveFiles || !sel.RemoveLinks {
		t.Error("removal flags should default to true")
	}
	if sel.FollowSymlinks || sel.Revert {
		t.Error("follow_symlinks and revert should default to false")
	}
}

func TestLoadRules_Flags(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `[/data/archive/*.bak]
ref_time = 2 weeks
remove_dirs = False
remove_links = 0
follow_symlinks = True
revert = 1
`)
	sels, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	sel := sels[0]
	if sel.RemoveDirs {
		t.Error("remove_dirs = False not honored")
	}
	if sel.RemoveLinks {
		t.Error("remove_links = 0 not honored")
	}
	if !sel.RemoveFiles {
		t.Error("remove_files should stay at its default")
	}
	if !sel.FollowSymlinks || !sel.Revert {
		t.Error("follow_symlinks/revert not honored")
	}
}

func TestLoadRules_MultipleSectionsInOrder(t *testing.T) {
	t.Parallel()

	path := writeRules(t, `[/tmp/a/*]
ref_time = 1 day

[/tmp/b/*]
ref_time = 20130310
`)
	sels, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(sels) != 2 {
		t.Fatalf("got %d selections, want 2", len(sels))
	}
	if sels[0].Pattern != "/tmp/a/*" || sels[1].Pattern != "/tmp/b/*" {
		t.Errorf("selections out of order: %q, %q", sels[0].Pattern, sels[1].Pattern)
	}
}

func TestLoadRules_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "missing ref_time",
			content: "[/tmp/*]\nremove_dirs = True\n",
			wantSub: "missing ref_time",
		},
		{
			name:    "bad boolean",
			content: "[/tmp/*]\nref_time = 1 day\nrevert = yes\n",
			wantSub: "invalid boolean",
		},
		{
			name:    "unknown key",
			content: "[/tmp/*]\nref_time = 1 day\nmax_depth = 3\n",
			wantSub: "unknown key",
		},
		{
			name:    "keys outside a section",
			content: "ref_time = 1 day\n",
			wantSub: "outside a [pattern] section",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadRules(writeRules(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.ini")); err == nil {
		t.Fatal("expected error for missing rules file")
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"True", true, false},
		{"False", false, false},
		{"1", true, false},
		{"0", false, false},
		{"-3", true, false},
		{" 42 ", true, false},
		{"true", false, true}, // only the capitalized literals
		{"yes", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		got, err := parseBool(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBool(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRule(t *testing.T) {
	t.Parallel()

	sel, err := ParseRule("/tmp/*.log:3 days")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if sel.Pattern != "/tmp/*.log" || sel.RefTime != "3 days" {
		t.Errorf("got pattern %q, ref_time %q", sel.Pattern, sel.RefTime)
	}

	// The split is on the first colon, so absolute reference times keep
	// their own colons.
	sel, err = ParseRule("/tmp/*.log:20130310 10:12:13")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if sel.RefTime != "20130310 10:12:13" {
		t.Errorf("RefTime = %q", sel.RefTime)
	}

	for _, bad := range []string{"", "/tmp/*.log", "/tmp/*.log:", ":3 days"} {
		if _, err := ParseRule(bad); err == nil {
			t.Errorf("ParseRule(%q): expected error", bad)
		}
	}
}
