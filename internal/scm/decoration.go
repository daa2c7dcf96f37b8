package scm

// ColorID names a theme color slot. The UI layer resolves it to an actual
// terminal color; the core only decides which slot a change maps to.
type ColorID string

// Decoration color slots.
const (
	ColorAdded     ColorID = "added"
	ColorModified  ColorID = "modified"
	ColorDeleted   ColorID = "deleted"
	ColorRenamed   ColorID = "renamed"
	ColorUntracked ColorID = "untracked"
	ColorConflict  ColorID = "conflict"
	ColorIgnored   ColorID = "ignored"
)

// Decoration is the visual metadata attached to a resource: an icon from
// the icon provider plus a letter, color and tooltip derived from the
// change status.
type Decoration struct {
	Icon    string
	Letter  string
	Color   ColorID
	Tooltip string
}

// DecorationFor maps (status, staged) to the letter/color/tooltip part of
// a decoration. Pure and deterministic; the icon is resolved separately.
func DecorationFor(status ChangeStatus, staged bool) Decoration {
	d := Decoration{
		Letter:  statusLetter(status),
		Color:   statusColor(status),
		Tooltip: status.String(),
	}
	if staged && status != Conflicted {
		d.Tooltip = "Index " + d.Tooltip
	}
	return d
}

func statusLetter(status ChangeStatus) string {
	switch status {
	case Added:
		return "A"
	case Modified:
		return "M"
	case Deleted:
		return "D"
	case Renamed:
		return "R"
	case Copied:
		return "C"
	case TypeChanged:
		return "T"
	case Untracked:
		return "U"
	case Ignored:
		return "I"
	case Conflicted:
		return "!"
	default:
		return " "
	}
}

func statusColor(status ChangeStatus) ColorID {
	switch status {
	case Added:
		return ColorAdded
	case Deleted:
		return ColorDeleted
	case Renamed, Copied:
		return ColorRenamed
	case Untracked:
		return ColorUntracked
	case Conflicted:
		return ColorConflict
	case Ignored:
		return ColorIgnored
	default:
		return ColorModified
	}
}
