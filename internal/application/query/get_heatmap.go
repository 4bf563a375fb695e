package query

import (
	"context"
	"time"

	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET HEATMAP QUERY
// Per-day study minutes for an activity calendar. Only days with a
// progress row are returned; the client paints the rest as empty.
// ══════════════════════════════════════════════════════════════════════════════

// maxHeatmapDays caps the requested range at one year.
const maxHeatmapDays = 366

// HeatmapCell is one day in the activity calendar.
type HeatmapCell struct {
	Date      string `json:"date"`
	StudyTime int    `json:"study_time"`
	GoalMet   bool   `json:"goal_met"`
}

// GetHeatmapHandler handles heatmap reads.
type GetHeatmapHandler struct {
	progressRepo progress.Repository
}

// NewGetHeatmapHandler creates a new GetHeatmapHandler.
func NewGetHeatmapHandler(progressRepo progress.Repository) *GetHeatmapHandler {
	return &GetHeatmapHandler{progressRepo: progressRepo}
}

// Handle returns cells for from..to inclusive. A zero range defaults to
// the trailing 90 days.
func (h *GetHeatmapHandler) Handle(ctx context.Context, userID user.ID, from, to time.Time) ([]HeatmapCell, error) {
	if to.IsZero() {
		to = timeutil.Today()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -89)
	}
	from = timeutil.StartOfDay(from)
	to = timeutil.StartOfDay(to)

	if to.Before(from) {
		return nil, shared.NewDomainError("progress", "Heatmap", shared.ErrInvalidInput, "range end precedes start")
	}
	if timeutil.DaysBetween(from, to) >= maxHeatmapDays {
		return nil, shared.NewDomainError("progress", "Heatmap", shared.ErrValueOutOfRange, "range exceeds one year")
	}

	rows, err := h.progressRepo.FindRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	cells := make([]HeatmapCell, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, HeatmapCell{
			Date:      timeutil.FormatDateStr(row.Date),
			StudyTime: row.StudyTime,
			GoalMet:   row.GoalMet,
		})
	}
	return cells, nil
}
