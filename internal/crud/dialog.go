package crud

// DialogMode enumerates the states of the single screen dialog.
type DialogMode int

const (
	DialogClosed DialogMode = iota
	DialogViewing
	DialogEditing
	DialogCreating
)

// String returns the query value used for the mode.
func (m DialogMode) String() string {
	switch m {
	case DialogViewing:
		return "view"
	case DialogEditing:
		return "edit"
	case DialogCreating:
		return "new"
	default:
		return ""
	}
}

// ParseDialogMode maps a query value back to a mode. Unknown values are closed.
func ParseDialogMode(s string) DialogMode {
	switch s {
	case "view":
		return DialogViewing
	case "edit":
		return DialogEditing
	case "new":
		return DialogCreating
	default:
		return DialogClosed
	}
}

// Dialog is the active dialog target. Item is only meaningful while viewing or editing.
type Dialog[T any] struct {
	mode DialogMode
	item T
}

func closedDialog[T any]() Dialog[T] { return Dialog[T]{mode: DialogClosed} }

// Mode reports the dialog state.
func (d Dialog[T]) Mode() DialogMode { return d.mode }

// Open reports whether any dialog is showing.
func (d Dialog[T]) Open() bool { return d.mode != DialogClosed }

// Target returns the viewed or edited item.
func (d Dialog[T]) Target() (T, bool) {
	if d.mode == DialogViewing || d.mode == DialogEditing {
		return d.item, true
	}
	var zero T
	return zero, false
}

// IsForm reports whether the dialog accepts a submit.
func (d Dialog[T]) IsForm() bool {
	return d.mode == DialogCreating || d.mode == DialogEditing
}
