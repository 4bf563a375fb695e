package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/studymind/studymind-server/internal/application/command"
	"github.com/studymind/studymind-server/internal/domain/ai"
	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/logger"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// authedHandler is a handler that runs with a resolved user identity.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID user.ID)

// authed resolves the bearer token into a user ID before dispatching.
func (s *Server) authed(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "missing_token", "Authorization: Bearer <token> header is required")
			return
		}

		userID, err := s.deps.Tokens.Resolve(r.Context(), token)
		if err != nil {
			if shared.IsUnauthorized(err) {
				s.writeError(w, r, http.StatusUnauthorized, "invalid_token", "session token expired or revoked")
				return
			}
			s.domainError(w, r, err)
			return
		}

		next(w, r, userID)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// domainError translates the domain error taxonomy to HTTP.
func (s *Server) domainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	message := err.Error()
	var de *shared.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		s.log.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", requestID(r.Context())),
			logger.Err(err),
		)
		message = "an unexpected error occurred"
	}

	s.writeError(w, r, status, code, message)
}

func classify(err error) (int, string) {
	switch {
	case shared.IsUnauthorized(err):
		return http.StatusUnauthorized, "unauthorized"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case shared.IsAlreadyExists(err):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, shared.ErrInvalidState) || errors.Is(err, shared.ErrStateTransition):
		return http.StatusConflict, "invalid_state"
	case shared.IsValidation(err):
		return http.StatusBadRequest, "invalid_input"
	case shared.IsParseFailure(err):
		return http.StatusBadGateway, "ai_parse_failure"
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusServiceUnavailable, "ai_rate_limited"
	case shared.IsProviderFailure(err):
		return http.StatusBadGateway, "ai_provider_failure"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.RegisterUser.Handle(r.Context(), command.RegisterUserCommand{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	s.writeData(w, r, http.StatusCreated, authResponse{User: toUserDTO(result.User), Token: result.Token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	result, err := s.deps.AuthenticateUser.Handle(r.Context(), command.AuthenticateUserCommand{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}

	s.writeData(w, r, http.StatusOK, authResponse{User: toUserDTO(result.User), Token: result.Token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.writeError(w, r, http.StatusUnauthorized, "missing_token", "Authorization: Bearer <token> header is required")
		return
	}
	if err := s.deps.Logout.Handle(r.Context(), token); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]bool{"logged_out": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID user.ID) {
	result, err := s.deps.GetDashboard.Handle(r.Context(), userID)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, toDashboardResponse(result))
}

func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var anchor time.Time
	if raw := r.URL.Query().Get("week"); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "week must be YYYY-MM-DD")
			return
		}
		anchor = parsed
	}

	result, err := s.deps.GetWeeklySummary.Handle(r.Context(), userID, anchor)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, toWeeklySummaryResponse(result))
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}

	cells, err := s.deps.GetHeatmap.Handle(r.Context(), userID, from, to)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]interface{}{"cells": cells})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		Theme                *string `json:"theme"`
		NotificationsEnabled *bool   `json:"notifications_enabled"`
		EmailNotifications   *bool   `json:"email_notifications"`
		DailyGoal            *int    `json:"daily_goal"`
		WeeklyGoal           *int    `json:"weekly_goal"`
		ReminderTime         *string `json:"reminder_time"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	settings, err := s.deps.UpdateSettings.Handle(r.Context(), command.UpdateSettingsCommand{
		UserID:               userID,
		Theme:                body.Theme,
		NotificationsEnabled: body.NotificationsEnabled,
		EmailNotifications:   body.EmailNotifications,
		DailyGoal:            body.DailyGoal,
		WeeklyGoal:           body.WeeklyGoal,
		ReminderTime:         body.ReminderTime,
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, toSettingsDTO(settings))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, userID user.ID) {
	if err := s.deps.DeleteUser.Handle(r.Context(), userID); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// MATERIAL HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request, userID user.ID) {
	filter := material.ListFilter{
		Subject: r.URL.Query().Get("subject"),
		Limit:   queryInt(r, "limit", 20),
		Offset:  queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := material.Status(raw)
		if !status.IsValid() {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "unknown material status")
			return
		}
		filter.Status = &status
	}

	items, err := s.deps.ListMaterials.Handle(r.Context(), userID, filter)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]interface{}{"materials": toMaterialDTOs(items)})
}

func (s *Server) handleUploadMaterial(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		Name        string   `json:"name"`
		StoragePath string   `json:"storage_path"`
		Size        int64    `json:"size"`
		Subject     string   `json:"subject"`
		Tags        []string `json:"tags"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	m, err := s.deps.UploadMaterial.Handle(r.Context(), command.UploadMaterialCommand{
		UserID:      userID,
		Name:        body.Name,
		StoragePath: body.StoragePath,
		Size:        body.Size,
		Subject:     body.Subject,
		Tags:        body.Tags,
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusCreated, toMaterialDTO(m))
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request, userID user.ID) {
	id := material.ID(r.PathValue("id"))
	if err := s.deps.DeleteMaterial.Handle(r.Context(), userID, id); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleProcessMaterial(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		Goal      string `json:"goal"`
		Text      string `json:"text"`
		Image     string `json:"image"`
		ImageMIME string `json:"image_mime"`
		PageCount int    `json:"page_count"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	var image []byte
	if body.Image != "" {
		decoded, err := base64.StdEncoding.DecodeString(body.Image)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "image must be base64-encoded")
			return
		}
		image = decoded
	}

	result, err := s.deps.ProcessMaterial.Handle(r.Context(), command.ProcessMaterialCommand{
		UserID:     userID,
		MaterialID: material.ID(r.PathValue("id")),
		Goal:       ai.StudyGoal(body.Goal),
		Text:       body.Text,
		Image:      image,
		ImageMIME:  body.ImageMIME,
		PageCount:  body.PageCount,
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, toProcessMaterialResponse(result))
}

func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request, userID user.ID) {
	quiz, err := s.deps.GenerateQuiz.Handle(r.Context(), userID, material.ID(r.PathValue("id")))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]interface{}{"quiz": quiz})
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		Question   string  `json:"question"`
		MaterialID *string `json:"material_id"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.AskQuestionCommand{UserID: userID, Question: body.Question}
	if body.MaterialID != nil {
		id := material.ID(*body.MaterialID)
		cmd.MaterialID = &id
	}

	answer, err := s.deps.AskQuestion.Handle(r.Context(), cmd)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) handleExplainConcept(w http.ResponseWriter, r *http.Request, _ user.ID) {
	var body struct {
		Concept string `json:"concept"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	explanation, err := s.deps.ExplainConcept.Handle(r.Context(), body.Concept)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]string{"explanation": explanation})
}

func (s *Server) handleGenerateStudyPlan(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		Plan string `json:"plan"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	tasks, err := s.deps.GenerateStudyPlan.Handle(r.Context(), command.GenerateStudyPlanCommand{
		UserID:     userID,
		MaterialID: material.ID(r.PathValue("id")),
		Plan:       command.PlanType(body.Plan),
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusCreated, map[string]interface{}{"tasks": toTaskDTOs(tasks)})
}

// ══════════════════════════════════════════════════════════════════════════════
// TASK HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, userID user.ID) {
	filter := task.ListFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed := raw == "true"
		filter.Completed = &completed
	}

	items, err := s.deps.ListTasks.Handle(r.Context(), userID, filter)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]interface{}{"tasks": toTaskDTOs(items)})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		MaterialID       *string `json:"material_id"`
		Title            string  `json:"title"`
		TaskType         string  `json:"task_type"`
		DueDate          *string `json:"due_date"`
		EstimatedMinutes int     `json:"estimated_minutes"`
		Priority         string  `json:"priority"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.CreateTaskCommand{
		UserID:           userID,
		Title:            body.Title,
		TaskType:         body.TaskType,
		EstimatedMinutes: body.EstimatedMinutes,
		Priority:         task.Priority(body.Priority),
	}
	if body.MaterialID != nil {
		id := material.ID(*body.MaterialID)
		cmd.MaterialID = &id
	}
	if body.DueDate != nil {
		due, err := timeutil.ParseDate(*body.DueDate)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "due_date must be YYYY-MM-DD")
			return
		}
		cmd.DueDate = &due
	}

	t, err := s.deps.CreateTask.Handle(r.Context(), cmd)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusCreated, toTaskDTO(t))
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, userID user.ID) {
	t, err := s.deps.ToggleTask.Handle(r.Context(), userID, task.ID(r.PathValue("id")))
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, toTaskDTO(t))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, userID user.ID) {
	if err := s.deps.DeleteTask.Handle(r.Context(), userID, task.ID(r.PathValue("id"))); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request, userID user.ID) {
	filter := studysession.ListFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("activity"); raw != "" {
		activity := studysession.Activity(raw)
		if !activity.IsValid() {
			s.writeError(w, r, http.StatusBadRequest, "invalid_input", "unknown activity type")
			return
		}
		filter.Activity = &activity
	}

	items, err := s.deps.ListSessions.Handle(r.Context(), userID, filter)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]interface{}{"sessions": toSessionDTOs(items)})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		MaterialID *string `json:"material_id"`
		Activity   string  `json:"activity"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.StartSessionCommand{
		UserID:   userID,
		Activity: studysession.Activity(body.Activity),
	}
	if body.MaterialID != nil {
		id := material.ID(*body.MaterialID)
		cmd.MaterialID = &id
	}

	session, err := s.deps.StartSession.Handle(r.Context(), cmd)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusCreated, toSessionDTO(session))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request, userID user.ID) {
	var body struct {
		Duration     int `json:"duration"`
		PagesCovered int `json:"pages_covered"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	session, err := s.deps.EndSession.Handle(r.Context(), command.EndSessionCommand{
		UserID:       userID,
		SessionID:    studysession.ID(r.PathValue("id")),
		Duration:     body.Duration,
		PagesCovered: body.PagesCovered,
	})
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, toSessionDTO(session))
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, userID user.ID) {
	filter := notification.ListFilter{
		Limit:  queryInt(r, "limit", 20),
		Offset: queryInt(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("unread"); raw != "" {
		unread := raw == "true"
		filter.Unread = &unread
	}

	items, err := s.deps.ListNotification.Handle(r.Context(), userID, filter)
	if err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]interface{}{"notifications": toNotificationDTOs(items)})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request, userID user.ID) {
	if err := s.deps.MarkRead.Handle(r.Context(), userID, notification.ID(r.PathValue("id"))); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]bool{"read": true})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request, userID user.ID) {
	if err := s.deps.MarkAllRead.Handle(r.Context(), userID); err != nil {
		s.domainError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, map[string]bool{"read": true})
}
