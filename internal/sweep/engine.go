package sweep

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/papapumpkin/housekeeper/internal/exclude"
	"github.com/papapumpkin/housekeeper/internal/reltime"
	"github.com/papapumpkin/housekeeper/internal/telemetry"
	"github.com/papapumpkin/housekeeper/internal/ui"
)

// Removal records one removed (or dry-run-removed) entry.
type Removal struct {
	Path      string
	Kind      string
	EntryTime time.Time
}

// Summary aggregates the outcome of one Clean invocation.
type Summary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Removed    int // entries removed (or that would be, under dry-run)
	Kept       int // entries failing the age gate
	Excluded   int // entries protected by a manifest
	Skipped    int // visited but not acted on: type-gated, denied, unclassifiable
	Removals   []Removal
}

// Engine is the housekeeping engine. Configure the exported fields, then
// call Clean. The visited set, exclusion cache, and confirmation state are
// engine-instance-scoped, so independent engines never interfere.
//
// Execution is strictly single-threaded: selections in order, glob matches
// in expansion order, symlink chases depth-first. The only blocking point
// is the interactive confirmation prompt.
type Engine struct {
	Mode         Mode
	DryRun       bool
	TimeAttr     TimeAttr
	ManifestName string            // exclusion manifest filename; defaults to exclude.DefaultManifestName
	Resolver     *reltime.Resolver // defaults to a resolver frozen at construction of the run
	Printer      *ui.Printer       // defaults to a non-verbose stderr printer
	Emitter      *telemetry.Emitter
	Input        io.Reader // operator answers; defaults to os.Stdin

	in       *bufio.Reader
	visited  map[string]struct{}
	excludes *exclude.Cache
	confirm  ConfirmState
	summary  *Summary
}

func (e *Engine) init() {
	if e.Resolver == nil {
		e.Resolver = reltime.NewResolver(time.Now())
	}
	if e.Printer == nil {
		e.Printer = ui.New(false)
	}
	if e.in == nil {
		in := e.Input
		if in == nil {
			in = os.Stdin
		}
		e.in = bufio.NewReader(in)
	}
	if e.visited == nil {
		e.visited = make(map[string]struct{})
	}
	if e.excludes == nil {
		e.excludes = exclude.NewCache(e.ManifestName)
	}
}

// Clean processes the selections in order. Each selection's reference time
// is resolved against the engine's frozen snapshot before its sweep starts,
// so a malformed expression aborts before any removal for that selection.
// The first removal failure aborts the remaining sweep; the summary built
// so far is returned alongside the error.
func (e *Engine) Clean(selections ...Selection) (*Summary, error) {
	e.init()
	sum := &Summary{StartedAt: time.Now(), DryRun: e.DryRun}
	e.summary = sum
	e.Emitter.Emit(telemetry.Event{
		Kind: telemetry.KindRunStart,
		Data: map[string]any{"selections": len(selections), "dry_run": e.DryRun, "time_attr": e.TimeAttr.String()},
	})

	for _, sel := range selections {
		ref, err := e.Resolver.Resolve(sel.RefTime)
		if err != nil {
			sum.FinishedAt = time.Now()
			return sum, err
		}
		e.Printer.Selection(sel.Pattern, sel.RefTime, ref, sel.Revert)
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindSelection,
			Pattern: sel.Pattern,
			Data:    map[string]any{"ref_time": sel.RefTime, "resolved": ref, "revert": sel.Revert},
		})
		if err := e.cleanSelection(sel, ref); err != nil {
			sum.FinishedAt = time.Now()
			return sum, err
		}
	}

	sum.FinishedAt = time.Now()
	e.Emitter.Emit(telemetry.Event{
		Kind: telemetry.KindRunDone,
		Data: map[string]any{"removed": sum.Removed, "kept": sum.Kept, "excluded": sum.Excluded, "skipped": sum.Skipped},
	})
	return sum, nil
}

// cleanSelection expands the selection's pattern and visits each match.
// Symlink chases re-enter here with the target as a literal pattern.
func (e *Engine) cleanSelection(sel Selection, ref time.Time) error {
	matches, err := filepath.Glob(sel.Pattern)
	if err != nil {
		return fmt.Errorf("sweep: bad pattern %q: %w", sel.Pattern, err)
	}
	for _, match := range matches {
		if err := e.visit(sel, ref, match); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) visit(sel Selection, ref time.Time, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("sweep: resolving %s: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if _, seen := e.visited[abs]; seen {
		e.Printer.Debug("· %s: already visited", abs)
		return nil
	}
	e.visited[abs] = struct{}{}

	info, err := os.Lstat(abs)
	if err != nil {
		// The entry vanished between glob expansion and stat.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sweep: stat %s: %w", abs, err)
	}

	kind, ok := classify(info)
	if !ok {
		e.summary.Skipped++
		e.Printer.Warn("cannot classify %s (mode %v), skipping", abs, info.Mode())
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindWarning,
			Pattern: sel.Pattern,
			Path:    abs,
			Data:    map[string]any{"reason": "unclassifiable", "mode": info.Mode().String()},
		})
		return nil
	}

	if !typeEligible(sel, kind) {
		e.summary.Skipped++
		e.Printer.Debug("· %s: %s removal disabled", abs, kind)
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindEntrySkipped,
			Pattern: sel.Pattern,
			Path:    abs,
			Data:    map[string]any{"reason": "type_disabled", "type": kind.String()},
		})
	} else if err := e.judge(sel, ref, abs, kind, info); err != nil {
		return err
	}

	if kind == KindLink && sel.FollowSymlinks {
		return e.chase(sel, ref, abs)
	}
	return nil
}

// judge runs the exclusion and age gates for a type-eligible entry and
// removes it on approval.
func (e *Engine) judge(sel Selection, ref time.Time, abs string, kind Kind, info os.FileInfo) error {
	manifest, err := e.excludedBy(abs, kind)
	if err != nil {
		return err
	}
	if manifest != "" {
		e.summary.Excluded++
		e.Printer.Excluded(abs, manifest)
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindEntryExcluded,
			Pattern: sel.Pattern,
			Path:    abs,
			Data:    map[string]any{"manifest": manifest},
		})
		return nil
	}

	t := entryTime(info, e.TimeAttr)
	eligible := t.Before(ref)
	keepReason := "too recent"
	if sel.Revert {
		eligible = !t.Before(ref)
		keepReason = "too old"
	}
	if !eligible {
		e.summary.Kept++
		e.Printer.Debug("· %s: %s (%s %v)", abs, keepReason, e.TimeAttr, t.Format("2006-01-02 15:04:05"))
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindEntryKept,
			Pattern: sel.Pattern,
			Path:    abs,
			Data:    map[string]any{"reason": keepReason, "entry_time": t},
		})
		return nil
	}

	approved, err := e.mustRemove(fmt.Sprintf("remove %s %s?", kind, abs))
	if err != nil {
		return err
	}
	if !approved {
		e.summary.Skipped++
		e.Printer.Denied(abs)
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindEntrySkipped,
			Pattern: sel.Pattern,
			Path:    abs,
			Data:    map[string]any{"reason": "denied"},
		})
		return nil
	}

	if e.DryRun {
		e.summary.Removed++
		e.summary.Removals = append(e.summary.Removals, Removal{Path: abs, Kind: kind.String(), EntryTime: t})
		e.Printer.WouldRemove(kind.String(), abs)
		e.Emitter.Emit(telemetry.Event{
			Kind:    telemetry.KindEntryDryRun,
			Pattern: sel.Pattern,
			Path:    abs,
			Data:    map[string]any{"type": kind.String()},
		})
		return nil
	}

	// Removal failures are deliberately fatal: a failed delete means an
	// environment problem the operator must see, not a condition to skip.
	if err := remove(kind, abs); err != nil {
		return fmt.Errorf("sweep: removing %s: %w", abs, err)
	}
	e.summary.Removed++
	e.summary.Removals = append(e.summary.Removals, Removal{Path: abs, Kind: kind.String(), EntryTime: t})
	e.Printer.Removed(kind.String(), abs)
	e.Emitter.Emit(telemetry.Event{
		Kind:    telemetry.KindEntryRemoved,
		Pattern: sel.Pattern,
		Path:    abs,
		Data:    map[string]any{"type": kind.String(), "entry_time": t},
	})
	return nil
}

// chase resolves one hop of a symbolic link and sweeps the target under the
// same selection policy. Resolution is hop by hop rather than to the final
// target so every intermediate link in a chain is evaluated; the shared
// visited set breaks cycles.
func (e *Engine) chase(sel Selection, ref time.Time, link string) error {
	target, err := os.Readlink(link)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sweep: readlink %s: %w", link, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	target = filepath.Clean(target)
	if target == link {
		return nil
	}
	return e.cleanSelection(sel.WithPattern(target), ref)
}

// excludedBy returns the manifest path protecting abs, or "" when no
// exclusion list names it. Directories consult their own manifest as well
// as their parent's.
func (e *Engine) excludedBy(abs string, kind Kind) (string, error) {
	dirs := []string{filepath.Dir(abs)}
	if kind == KindDir {
		dirs = []string{abs, filepath.Dir(abs)}
	}
	for _, dir := range dirs {
		l, err := e.excludes.Lookup(dir)
		if err != nil {
			return "", err
		}
		if l.Contains(abs) {
			return l.Manifest, nil
		}
	}
	return "", nil
}

// mustRemove implements the confirmation protocol. Force mode approves
// unconditionally; interactive mode consults the sticky state and otherwise
// blocks for an operator answer. EOF on the answer stream denies the rest
// of the run.
func (e *Engine) mustRemove(message string) (bool, error) {
	if e.Mode == Force {
		return true, nil
	}
	if approved, ok := e.confirm.Sticky(); ok {
		return approved, nil
	}
	for {
		e.Printer.Prompt(message)
		line, err := e.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("sweep: reading answer: %w", err)
		}
		atEOF := errors.Is(err, io.EOF)

		approved, next, derr := Decide(e.confirm, line)
		if derr != nil {
			if atEOF {
				e.confirm = DenyAll
				return false, nil
			}
			e.Printer.Warn("%v", derr)
			continue
		}
		e.confirm = next
		return approved, nil
	}
}

// classify determines the entry kind without following links. Entries that
// are neither links, directories, nor regular files (sockets, devices,
// fifos) are unclassifiable.
func classify(info os.FileInfo) (Kind, bool) {
	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return KindLink, true
	case mode.IsDir():
		return KindDir, true
	case mode.IsRegular():
		return KindFile, true
	}
	return 0, false
}

func typeEligible(sel Selection, kind Kind) bool {
	switch kind {
	case KindDir:
		return sel.RemoveDirs
	case KindFile:
		return sel.RemoveFiles
	case KindLink:
		return sel.RemoveLinks
	}
	return false
}

// remove performs the type-specific destructive operation.
func remove(kind Kind, path string) error {
	if kind == KindDir {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}
