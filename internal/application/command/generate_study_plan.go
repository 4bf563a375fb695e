package command

import (
	"context"
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GENERATE STUDY PLAN COMMAND
// Creates a fixed task sequence for a material. Due dates are spread one
// per day starting tomorrow.
// ══════════════════════════════════════════════════════════════════════════════

// PlanType selects a study plan template.
type PlanType string

const (
	PlanUnderstand  PlanType = "understand"
	PlanExamPrep    PlanType = "exam_prep"
	PlanQuickReview PlanType = "quick_review"
)

// planStep is one templated task.
type planStep struct {
	title    string
	taskType string
	minutes  int
	priority task.Priority
}

// planTemplates maps each plan type to its ordered steps.
var planTemplates = map[PlanType][]planStep{
	PlanUnderstand: {
		{title: "Read through %s", taskType: "reading", minutes: 45, priority: task.PriorityHigh},
		{title: "Summarize key concepts from %s", taskType: "notes", minutes: 30, priority: task.PriorityMedium},
		{title: "Review flashcards for %s", taskType: "flashcards", minutes: 20, priority: task.PriorityMedium},
	},
	PlanExamPrep: {
		{title: "Read through %s", taskType: "reading", minutes: 60, priority: task.PriorityHigh},
		{title: "Create summary notes for %s", taskType: "notes", minutes: 40, priority: task.PriorityHigh},
		{title: "Drill flashcards for %s", taskType: "flashcards", minutes: 30, priority: task.PriorityMedium},
		{title: "Take a practice quiz on %s", taskType: "quiz", minutes: 30, priority: task.PriorityHigh},
		{title: "Final review of %s", taskType: "review", minutes: 30, priority: task.PriorityHigh},
	},
	PlanQuickReview: {
		{title: "Skim %s", taskType: "reading", minutes: 20, priority: task.PriorityMedium},
		{title: "Quick flashcard pass on %s", taskType: "flashcards", minutes: 15, priority: task.PriorityLow},
	},
}

// GenerateStudyPlanCommand selects the material and template.
type GenerateStudyPlanCommand struct {
	UserID     user.ID
	MaterialID material.ID
	Plan       PlanType
}

// GenerateStudyPlanHandler handles the GenerateStudyPlanCommand.
type GenerateStudyPlanHandler struct {
	taskRepo     task.Repository
	materialRepo material.Repository
}

// NewGenerateStudyPlanHandler creates a new GenerateStudyPlanHandler.
func NewGenerateStudyPlanHandler(taskRepo task.Repository, materialRepo material.Repository) *GenerateStudyPlanHandler {
	return &GenerateStudyPlanHandler{taskRepo: taskRepo, materialRepo: materialRepo}
}

// Handle creates the templated tasks. Step i is due i+1 days from now.
func (h *GenerateStudyPlanHandler) Handle(ctx context.Context, cmd GenerateStudyPlanCommand) ([]*task.Task, error) {
	steps, ok := planTemplates[cmd.Plan]
	if !ok {
		return nil, shared.NewDomainError("task", "GeneratePlan", shared.ErrInvalidInput,
			fmt.Sprintf("unknown plan type %q", cmd.Plan))
	}

	m, err := h.materialRepo.FindByID(ctx, cmd.UserID, cmd.MaterialID)
	if err != nil {
		return nil, err
	}

	base := timeutil.StartOfDay(time.Now().UTC())
	tasks := make([]*task.Task, 0, len(steps))

	for i, step := range steps {
		due := base.AddDate(0, 0, i+1)
		materialID := m.ID

		t, err := task.NewTask(task.NewTaskParams{
			ID:               task.ID(newID()),
			UserID:           cmd.UserID,
			MaterialID:       &materialID,
			Title:            fmt.Sprintf(step.title, m.Name),
			TaskType:         step.taskType,
			DueDate:          &due,
			EstimatedMinutes: step.minutes,
			Priority:         step.priority,
		})
		if err != nil {
			return nil, err
		}
		if err := h.taskRepo.Create(ctx, t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}
