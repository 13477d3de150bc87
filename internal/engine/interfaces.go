package engine

import (
	"context"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// RunRecorder persists finished outcomes. service.RunStore satisfies it.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) error
}
