// Package sweep implements the housekeeping engine: it expands glob
// selections, classifies each matched entry, applies type, exclusion, and
// age gates, runs the removal-confirmation protocol, and chases symbolic
// links without re-visiting any physical entry within one run.
package sweep

// Kind classifies a filesystem entry. Symbolic links take priority over
// the file/directory distinction: a link to a directory is a link.
type Kind int

const (
	KindLink Kind = iota
	KindDir
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// TimeAttr selects which inode timestamp the age gate compares.
type TimeAttr int

const (
	Mtime TimeAttr = iota // modification time (default)
	Ctime                 // inode change time
	Atime                 // access time
)

func (a TimeAttr) String() string {
	switch a {
	case Ctime:
		return "ctime"
	case Atime:
		return "atime"
	}
	return "mtime"
}

// Mode controls the confirmation protocol.
type Mode int

const (
	Interactive Mode = iota // prompt the operator before each removal
	Force                   // approve every removal without prompting
)

// Selection is one configured cleaning rule: a glob pattern, a reference
// time expression, and behavior flags. Selections are immutable values;
// symlink chasing derives a new Selection via WithPattern rather than
// mutating the original.
type Selection struct {
	Pattern        string
	RefTime        string // reference-time expression, resolved per run
	RemoveDirs     bool
	RemoveFiles    bool
	RemoveLinks    bool
	FollowSymlinks bool
	Revert         bool // invert the age comparison: remove young, keep old
}

// NewSelection returns a Selection with the default flags: all entry types
// removable, no symlink following, no reverted comparison.
func NewSelection(pattern, refTime string) Selection {
	return Selection{
		Pattern:     pattern,
		RefTime:     refTime,
		RemoveDirs:  true,
		RemoveFiles: true,
		RemoveLinks: true,
	}
}

// WithPattern returns a copy of s with only the pattern replaced. Used when
// chasing a symbolic link: the target is swept under the same policy.
func (s Selection) WithPattern(pattern string) Selection {
	s.Pattern = pattern
	return s
}
