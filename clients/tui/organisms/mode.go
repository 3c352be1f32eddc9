package organisms

// Mode represents the list interaction state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit        // deletion enabled
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "NORMAL"
}
