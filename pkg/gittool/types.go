package gittool

// DiffMode values represent the kind of things a Change can represent:
// creations, modifications, deletions or renaming of files.
type DiffMode int

// The set of possible diff mode in a change.
const (
	_ DiffMode = iota
	NewMode
	ModifyMode
	DeleteMode
	RenameMode
)

func (m DiffMode) String() string {
	switch m {
	case NewMode:
		return "new"
	case ModifyMode:
		return "modify"
	case DeleteMode:
		return "delete"
	case RenameMode:
		return "rename"
	default:
		return "unknown"
	}
}

// Change describes a file changed in HEAD compared to another branch.
type Change struct {
	// FileName is the slash separated path relative to the repository root.
	// For DeleteMode it is the removed path, otherwise the path in HEAD.
	FileName string
	// Mode indicates what kind of the change, whether it's a new created file,
	// or a modified file, or deleted file, or renamed file.
	Mode DiffMode
}
