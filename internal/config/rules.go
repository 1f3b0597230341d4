package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/papapumpkin/housekeeper/internal/sweep"
)

// LoadRules reads an INI rules file. Each section is keyed by a glob
// pattern; ref_time is required, the behavior flags default to the
// Selection defaults. Selections come back in file order.
func LoadRules(path string) ([]sweep.Selection, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading rules %s: %w", path, err)
	}

	var selections []sweep.Selection
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			if len(sec.Keys()) > 0 {
				return nil, fmt.Errorf("config: %s: keys outside a [pattern] section", path)
			}
			continue
		}
		sel, err := selectionFromSection(sec)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

func selectionFromSection(sec *ini.Section) (sweep.Selection, error) {
	sel := sweep.NewSelection(sec.Name(), "")

	if !sec.HasKey("ref_time") {
		return sel, fmt.Errorf("section %q: missing ref_time", sec.Name())
	}
	sel.RefTime = sec.Key("ref_time").String()

	flags := []struct {
		key string
		dst *bool
	}{
		{"remove_dirs", &sel.RemoveDirs},
		{"remove_files", &sel.RemoveFiles},
		{"remove_links", &sel.RemoveLinks},
		{"follow_symlinks", &sel.FollowSymlinks},
		{"revert", &sel.Revert},
	}
	for _, f := range flags {
		if !sec.HasKey(f.key) {
			continue
		}
		b, err := parseBool(sec.Key(f.key).String())
		if err != nil {
			return sel, fmt.Errorf("section %q: key %s: %w", sec.Name(), f.key, err)
		}
		*f.dst = b
	}

	for _, key := range sec.KeyStrings() {
		if !knownRuleKey(key) {
			return sel, fmt.Errorf("section %q: unknown key %s", sec.Name(), key)
		}
	}
	return sel, nil
}

func knownRuleKey(key string) bool {
	switch key {
	case "ref_time", "remove_dirs", "remove_files", "remove_links", "follow_symlinks", "revert":
		return true
	}
	return false
}

// parseBool accepts the literals "True"/"False" or any integer, with
// non-zero meaning true.
func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf(`invalid boolean %q (want "True", "False", or an integer)`, s)
}

// ParseRule converts an ad hoc "pattern:ref_time" argument into a Selection
// with default flags. The split is on the first colon so reference times
// containing colons (absolute timestamps) survive.
func ParseRule(arg string) (sweep.Selection, error) {
	pattern, refTime, ok := strings.Cut(arg, ":")
	if !ok || pattern == "" || strings.TrimSpace(refTime) == "" {
		return sweep.Selection{}, fmt.Errorf("config: rule %q: want pattern:ref_time", arg)
	}
	return sweep.NewSelection(pattern, refTime), nil
}
