package board

import (
	"context"

	"kanban/internal/models"
)

// Transfer is what a dragged card carries.
type Transfer struct {
	ID           string        `json:"id"`
	SourceStatus models.Status `json:"source_status"`
}

// StatusChanger is implemented by Controller.
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id string, status models.Status) error
}

// Coordinator handles cards dropped onto a column.
type Coordinator struct {
	changer StatusChanger
}

func NewCoordinator(changer StatusChanger) *Coordinator {
	return &Coordinator{changer: changer}
}

// Drop moves the dragged task to target. Dropping on the source column still
// issues the status change.
func (d *Coordinator) Drop(ctx context.Context, t Transfer, target models.Status) error {
	return d.changer.ChangeStatus(ctx, t.ID, target)
}
