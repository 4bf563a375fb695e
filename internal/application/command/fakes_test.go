package command

import (
	"context"
	"fmt"
	"time"

	"github.com/studymind/studymind-server/internal/domain/material"
	"github.com/studymind/studymind-server/internal/domain/notification"
	"github.com/studymind/studymind-server/internal/domain/progress"
	"github.com/studymind/studymind-server/internal/domain/shared"
	"github.com/studymind/studymind-server/internal/domain/studysession"
	"github.com/studymind/studymind-server/internal/domain/task"
	"github.com/studymind/studymind-server/internal/domain/user"
	"github.com/studymind/studymind-server/pkg/timeutil"
)

// In-memory ports used by the command handler tests. They mirror the
// contracts documented on the repository interfaces, including the
// atomic goal-claim in Accumulate.

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users    map[user.ID]*user.User
	settings map[user.ID]*user.Settings
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[user.ID]*user.User),
		settings: make(map[user.ID]*user.Settings),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return shared.ErrEmailTaken
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id user.ID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email user.Email) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id user.ID) error {
	delete(r.users, id)
	delete(r.settings, id)
	return nil
}

func (r *fakeUserRepo) SaveSettings(_ context.Context, s *user.Settings) error {
	r.settings[s.UserID] = s
	return nil
}

func (r *fakeUserRepo) FindSettings(_ context.Context, id user.ID) (*user.Settings, error) {
	s, ok := r.settings[id]
	if !ok {
		return nil, shared.ErrSettingsNotFound
	}
	return s, nil
}

func (r *fakeUserRepo) ListReminderDue(_ context.Context, clock string) ([]user.ID, error) {
	var due []user.ID
	for id, s := range r.settings {
		if s.NotificationsEnabled && s.ReminderTime == clock {
			due = append(due, id)
		}
	}
	return due, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress
// ─────────────────────────────────────────────────────────────────────────────

type fakeProgressRepo struct {
	rows map[string]*progress.DailyProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[string]*progress.DailyProgress)}
}

func progressKey(userID user.ID, date time.Time) string {
	return fmt.Sprintf("%s|%s", userID, timeutil.FormatDateStr(date))
}

func (r *fakeProgressRepo) Accumulate(
	_ context.Context,
	userID user.ID,
	date time.Time,
	d progress.Delta,
	dailyGoal int,
	hasGoal bool,
) (*progress.DailyProgress, bool, error) {
	key := progressKey(userID, date)
	row, ok := r.rows[key]
	if !ok {
		row = progress.NewDailyProgress(userID, date)
		r.rows[key] = row
	}
	row.Apply(d)
	justMet := row.EvaluateGoal(dailyGoal, hasGoal)
	return row, justMet, nil
}

func (r *fakeProgressRepo) FindByDate(_ context.Context, userID user.ID, date time.Time) (*progress.DailyProgress, error) {
	row, ok := r.rows[progressKey(userID, date)]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	return row, nil
}

func (r *fakeProgressRepo) FindRange(_ context.Context, userID user.ID, from, to time.Time) ([]*progress.DailyProgress, error) {
	var out []*progress.DailyProgress
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if row, ok := r.rows[progressKey(userID, d)]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Tasks
// ─────────────────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	tasks map[task.ID]*task.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[task.ID]*task.Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *task.Task) error {
	r.tasks[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, userID user.ID, id task.ID) (*task.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, shared.ErrTaskNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *task.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return shared.ErrTaskNotFound
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID user.ID, id task.ID) error {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return shared.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) ListByUser(_ context.Context, userID user.ID, _ task.ListFilter) ([]*task.Task, error) {
	var out []*task.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListDueWithin(_ context.Context, now time.Time, days int) ([]*task.Task, error) {
	limit := now.AddDate(0, 0, days)
	var out []*task.Task
	for _, t := range r.tasks {
		if !t.Completed && t.DueDate != nil && !t.DueDate.Before(now) && !t.DueDate.After(limit) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) UnlinkMaterial(_ context.Context, materialID material.ID) error {
	for _, t := range r.tasks {
		if t.MaterialID != nil && *t.MaterialID == materialID {
			t.UnlinkMaterial()
		}
	}
	return nil
}

func (r *fakeTaskRepo) CountByUser(_ context.Context, userID user.ID, completed *bool) (int, error) {
	count := 0
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		count++
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Materials
// ─────────────────────────────────────────────────────────────────────────────

type fakeMaterialRepo struct {
	materials map[material.ID]*material.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[material.ID]*material.Material)}
}

func (r *fakeMaterialRepo) Create(_ context.Context, m *material.Material) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, userID user.ID, id material.ID) (*material.Material, error) {
	m, ok := r.materials[id]
	if !ok || m.UserID != userID {
		return nil, shared.ErrMaterialNotFound
	}
	return m, nil
}

func (r *fakeMaterialRepo) Update(_ context.Context, m *material.Material) error {
	if _, ok := r.materials[m.ID]; !ok {
		return shared.ErrMaterialNotFound
	}
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) Delete(_ context.Context, userID user.ID, id material.ID) error {
	m, ok := r.materials[id]
	if !ok || m.UserID != userID {
		return shared.ErrMaterialNotFound
	}
	delete(r.materials, id)
	return nil
}

func (r *fakeMaterialRepo) ListByUser(_ context.Context, userID user.ID, _ material.ListFilter) ([]*material.Material, error) {
	var out []*material.Material
	for _, m := range r.materials {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) CountByUser(_ context.Context, userID user.ID) (int, error) {
	count := 0
	for _, m := range r.materials {
		if m.UserID == userID {
			count++
		}
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Sessions
// ─────────────────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[studysession.ID]*studysession.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[studysession.ID]*studysession.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *studysession.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, userID user.ID, id studysession.ID) (*studysession.Session, error) {
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, shared.ErrStudySessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *studysession.Session) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return shared.ErrStudySessionNotFound
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID user.ID, _ studysession.ListFilter) ([]*studysession.Session, error) {
	var out []*studysession.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UnlinkMaterial(_ context.Context, materialID material.ID) error {
	for _, s := range r.sessions {
		if s.MaterialID != nil && *s.MaterialID == materialID {
			s.UnlinkMaterial()
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Notifications
// ─────────────────────────────────────────────────────────────────────────────

type fakeNotifRepo struct {
	created []*notification.Notification
}

func newFakeNotifRepo() *fakeNotifRepo {
	return &fakeNotifRepo{}
}

func (r *fakeNotifRepo) Create(_ context.Context, n *notification.Notification) error {
	r.created = append(r.created, n)
	return nil
}

func (r *fakeNotifRepo) FindByID(_ context.Context, userID user.ID, id notification.ID) (*notification.Notification, error) {
	for _, n := range r.created {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return nil, shared.ErrNotificationNotFound
}

func (r *fakeNotifRepo) ListByUser(_ context.Context, userID user.ID, _ notification.ListFilter) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(_ context.Context, userID user.ID, id notification.ID) error {
	n, err := r.FindByID(context.Background(), userID, id)
	if err != nil {
		return err
	}
	n.MarkRead()
	return nil
}

func (r *fakeNotifRepo) MarkAllRead(_ context.Context, userID user.ID) error {
	for _, n := range r.created {
		if n.UserID == userID {
			n.MarkRead()
		}
	}
	return nil
}

func (r *fakeNotifRepo) CountUnread(_ context.Context, userID user.ID) (int, error) {
	count := 0
	for _, n := range r.created {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// byTitle returns notifications whose title matches exactly.
func (r *fakeNotifRepo) byTitle(title string) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range r.created {
		if n.Title == title {
			out = append(out, n)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Unread counter
// ─────────────────────────────────────────────────────────────────────────────

type fakeUnreadCounter struct {
	increments  int
	invalidates int
}

func (c *fakeUnreadCounter) Increment(_ context.Context, _ user.ID) error {
	c.increments++
	return nil
}

func (c *fakeUnreadCounter) Invalidate(_ context.Context, _ user.ID) error {
	c.invalidates++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Session tokens
// ─────────────────────────────────────────────────────────────────────────────

type fakeTokens struct {
	issued  map[string]user.ID
	counter int
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: make(map[string]user.ID)}
}

func (f *fakeTokens) Issue(_ context.Context, userID user.ID) (string, error) {
	f.counter++
	token := fmt.Sprintf("token-%d", f.counter)
	f.issued[token] = userID
	return token, nil
}

func (f *fakeTokens) Resolve(_ context.Context, token string) (user.ID, error) {
	id, ok := f.issued[token]
	if !ok {
		return "", shared.ErrSessionTokenStale
	}
	return id, nil
}

func (f *fakeTokens) Revoke(_ context.Context, token string) error {
	delete(f.issued, token)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Test scaffolding
// ─────────────────────────────────────────────────────────────────────────────

func seedUser(r *fakeUserRepo, id user.ID, withSettings bool) *user.User {
	email, _ := user.NewEmail(fmt.Sprintf("%s@example.com", id))
	u, _ := user.NewUser(user.NewUserParams{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
	})
	r.users[id] = u
	if withSettings {
		r.settings[id] = user.DefaultSettings(id)
	}
	return u
}
