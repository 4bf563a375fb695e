package http

import (
	"time"

	"github.com/studymind/studymind-server/internal/application/command"
	"github.com/studymind/studymind-server/internal/application/query"
	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE DTOs
// Domain entities stay JSON-free; the wire shape is decided here.
// ══════════════════════════════════════════════════════════════════════════════

type userDTO struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	Initials       string    `json:"initials"`
	Streak         int       `json:"streak"`
	TotalStudyTime int       `json:"total_study_time"`
	LastActive     time.Time `json:"last_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserDTO(u *user.User) userDTO {
	return userDTO{
		ID:             u.ID.String(),
		Email:          u.Email.String(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Initials:       u.Initials(),
		Streak:         u.Streak,
		TotalStudyTime: u.TotalStudyTime,
		LastActive:     u.LastActive,
		CreatedAt:      u.CreatedAt,
	}
}

type settingsDTO struct {
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailNotifications   bool   `json:"email_notifications"`
	DailyGoal            int    `json:"daily_goal"`
	WeeklyGoal           int    `json:"weekly_goal"`
	ReminderTime         string `json:"reminder_time"`
}

func toSettingsDTO(s *user.Settings) *settingsDTO {
	if s == nil {
		return nil
	}
	return &settingsDTO{
		Theme:                string(s.Theme),
		NotificationsEnabled: s.NotificationsEnabled,
		EmailNotifications:   s.EmailNotifications,
		DailyGoal:            s.DailyGoal,
		WeeklyGoal:           s.WeeklyGoal,
		ReminderTime:         s.ReminderTime,
	}
}

type progressDTO struct {
	Date               string `json:"date"`
	StudyTime          int    `json:"study_time"`
	MaterialsProcessed int    `json:"materials_processed"`
	TasksCompleted     int    `json:"tasks_completed"`
	PagesRead          int    `json:"pages_read"`
	GoalMet            bool   `json:"goal_met"`
}

func toProgressDTO(p *progress.DailyProgress) progressDTO {
	return progressDTO{
		Date:               timeutil.FormatDateStr(p.Date),
		StudyTime:          p.StudyTime,
		MaterialsProcessed: p.MaterialsProcessed,
		TasksCompleted:     p.TasksCompleted,
		PagesRead:          p.PagesRead,
		GoalMet:            p.GoalMet,
	}
}

type materialDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileType  string    `json:"file_type"`
	Size      int64     `json:"size"`
	PageCount int       `json:"page_count"`
	Status    string    `json:"status"`
	Subject   string    `json:"subject,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMaterialDTO(m *material.Material) materialDTO {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return materialDTO{
		ID:        m.ID.String(),
		Name:      m.Name,
		FileType:  string(m.FileType),
		Size:      m.Size,
		PageCount: m.PageCount,
		Status:    string(m.Status),
		Subject:   m.Subject,
		Tags:      tags,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toMaterialDTOs(ms []*material.Material) []materialDTO {
	out := make([]materialDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMaterialDTO(m))
	}
	return out
}

type taskDTO struct {
	ID               string     `json:"id"`
	MaterialID       *string    `json:"material_id,omitempty"`
	Title            string     `json:"title"`
	TaskType         string     `json:"task_type,omitempty"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	DueDate          *string    `json:"due_date,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Priority         string     `json:"priority"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toTaskDTO(t *task.Task) taskDTO {
	dto := taskDTO{
		ID:               t.ID.String(),
		Title:            t.Title,
		TaskType:         t.TaskType,
		Completed:        t.Completed,
		CompletedAt:      t.CompletedAt,
		EstimatedMinutes: t.EstimatedMinutes,
		Priority:         string(t.Priority),
		CreatedAt:        t.CreatedAt,
	}
	if t.MaterialID != nil {
		id := t.MaterialID.String()
		dto.MaterialID = &id
	}
	if t.DueDate != nil {
		d := timeutil.FormatDateStr(*t.DueDate)
		dto.DueDate = &d
	}
	return dto
}

func toTaskDTOs(ts []*task.Task) []taskDTO {
	out := make([]taskDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskDTO(t))
	}
	return out
}

type sessionDTO struct {
	ID           string     `json:"id"`
	MaterialID   *string    `json:"material_id,omitempty"`
	Activity     string     `json:"activity"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Duration     int        `json:"duration"`
	PagesCovered int        `json:"pages_covered"`
	Date         string     `json:"date"`
}

func toSessionDTO(s *studysession.Session) sessionDTO {
	dto := sessionDTO{
		ID:           s.ID.String(),
		Activity:     string(s.Activity),
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		Duration:     s.Duration,
		PagesCovered: s.PagesCovered,
		Date:         timeutil.FormatDateStr(s.Date),
	}
	if s.MaterialID != nil {
		id := s.MaterialID.String()
		dto.MaterialID = &id
	}
	return dto
}

func toSessionDTOs(ss []*studysession.Session) []sessionDTO {
	out := make([]sessionDTO, 0, len(ss))
	for _, s := range ss {
		out = append(out, toSessionDTO(s))
	}
	return out
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Icon      string    `json:"icon"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationDTO(n *notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID.String(),
		Kind:      string(n.Kind),
		Title:     n.Title,
		Text:      n.Text,
		Icon:      n.Icon,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func toNotificationDTOs(ns []*notification.Notification) []notificationDTO {
	out := make([]notificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotificationDTO(n))
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Composite responses
// ─────────────────────────────────────────────────────────────────────────────

type authResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

type dashboardResponse struct {
	User            userDTO       `json:"user"`
	Settings        *settingsDTO  `json:"settings,omitempty"`
	Today           progressDTO   `json:"today"`
	RecentMaterials []materialDTO `json:"recent_materials"`
	OpenTasks       []taskDTO     `json:"open_tasks"`
	UnreadCount     int           `json:"unread_count"`
}

func toDashboardResponse(d *query.DashboardResult) dashboardResponse {
	return dashboardResponse{
		User:            toUserDTO(d.User),
		Settings:        toSettingsDTO(d.Settings),
		Today:           toProgressDTO(d.Today),
		RecentMaterials: toMaterialDTOs(d.RecentMaterials),
		OpenTasks:       toTaskDTOs(d.OpenTasks),
		UnreadCount:     d.UnreadCount,
	}
}

type weekDayDTO struct {
	Date           string `json:"date"`
	StudyTime      int    `json:"study_time"`
	TasksCompleted int    `json:"tasks_completed"`
	PagesRead      int    `json:"pages_read"`
	GoalMet        bool   `json:"goal_met"`
}

type weeklySummaryResponse struct {
	WeekStart       string       `json:"week_start"`
	WeekEnd         string       `json:"week_end"`
	Days            []weekDayDTO `json:"days"`
	TotalStudyTime  int          `json:"total_study_time"`
	TotalTasks      int          `json:"total_tasks"`
	GoalMetDays     int          `json:"goal_met_days"`
	WeeklyGoal      int          `json:"weekly_goal"`
	WeeklyGoalMet   bool         `json:"weekly_goal_met"`
	WeeklyGoalKnown bool         `json:"weekly_goal_known"`
}

func toWeeklySummaryResponse(r *query.WeeklySummaryResult) weeklySummaryResponse {
	days := make([]weekDayDTO, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, weekDayDTO{
			Date:           timeutil.FormatDateStr(d.Date),
			StudyTime:      d.StudyTime,
			TasksCompleted: d.TasksCompleted,
			PagesRead:      d.PagesRead,
			GoalMet:        d.GoalMet,
		})
	}
	return weeklySummaryResponse{
		WeekStart:       timeutil.FormatDateStr(r.WeekStart),
		WeekEnd:         timeutil.FormatDateStr(r.WeekEnd),
		Days:            days,
		TotalStudyTime:  r.TotalStudyTime,
		TotalTasks:      r.TotalTasks,
		GoalMetDays:     r.GoalMetDays,
		WeeklyGoal:      r.WeeklyGoal,
		WeeklyGoalMet:   r.WeeklyGoalMet,
		WeeklyGoalKnown: r.WeeklyGoalKnown,
	}
}

type processMaterialResponse struct {
	Material   materialDTO    `json:"material"`
	Compendium string         `json:"compendium"`
	Flashcards []ai.Flashcard `json:"flashcards,omitempty"`

	// FlashcardsError is set when flashcard generation failed while the
	// compendium succeeded.
	FlashcardsError string `json:"flashcards_error,omitempty"`
}

func toProcessMaterialResponse(r *command.ProcessMaterialResult) processMaterialResponse {
	resp := processMaterialResponse{
		Material:   toMaterialDTO(r.Material),
		Compendium: r.Compendium,
		Flashcards: r.Flashcards,
	}
	if r.FlashcardsErr != nil {
		resp.FlashcardsError = r.FlashcardsErr.Error()
	}
	return resp
}
