package board

import (
	"encoding/json"

	"kanban/internal/models"
)

// Mode is the state of the editing surface.
type Mode int

const (
	Idle Mode = iota
	Creating
	Editing
	ConfirmingDelete
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirming_delete"
	default:
		return "unknown"
	}
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// Surface describes the editing surface: whether it is open, which task it
// refers to and the draft it was seeded with.
type Surface struct {
	Mode   Mode          `json:"mode"`
	TaskID string        `json:"task_id,omitempty"`
	Draft  models.Fields `json:"draft"`
}

// Open reports whether the task form is shown.
func (s Surface) Open() bool {
	return s.Mode == Creating || s.Mode == Editing
}

func idleSurface() Surface {
	return Surface{Mode: Idle}
}

func creatingSurface(draft models.Fields) Surface {
	return Surface{Mode: Creating, Draft: draft}
}

func editingSurface(t models.Task) Surface {
	return Surface{Mode: Editing, TaskID: t.ID, Draft: t.Fields}
}

func confirmingSurface(id string) Surface {
	return Surface{Mode: ConfirmingDelete, TaskID: id}
}
