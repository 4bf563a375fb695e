package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users and settings tables
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    streak INTEGER NOT NULL DEFAULT 0,
    total_study_time INTEGER NOT NULL DEFAULT 0,
    last_active TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_streak CHECK (streak >= 0),
    CONSTRAINT valid_total_study_time CHECK (total_study_time >= 0)
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_last_active ON users(last_active);

-- One-to-one settings row. No row means no daily goal exists for the user.
CREATE TABLE IF NOT EXISTS user_settings (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    theme VARCHAR(10) NOT NULL DEFAULT 'dark',
    notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    email_notifications BOOLEAN NOT NULL DEFAULT FALSE,
    daily_goal INTEGER NOT NULL DEFAULT 60,
    weekly_goal INTEGER NOT NULL DEFAULT 300,
    reminder_time VARCHAR(5) NOT NULL DEFAULT '09:00',

    CONSTRAINT valid_theme CHECK (theme IN ('light', 'dark')),
    CONSTRAINT valid_daily_goal CHECK (daily_goal >= 0),
    CONSTRAINT valid_weekly_goal CHECK (weekly_goal >= 0)
);

CREATE INDEX IF NOT EXISTS idx_user_settings_reminder
    ON user_settings(reminder_time) WHERE notifications_enabled;
`

const migration001Down = `
DROP TABLE IF EXISTS user_settings;
DROP TABLE IF EXISTS users;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE MATERIALS, TASKS, SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create materials, tasks, and study sessions
-- Version: 002
-- Tasks and sessions reference materials weakly: ON DELETE SET NULL, never
-- cascade. Deleting a material must not delete the work built on it.

CREATE TABLE IF NOT EXISTS materials (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    storage_path TEXT NOT NULL DEFAULT '',
    file_type VARCHAR(10) NOT NULL,
    size BIGINT NOT NULL DEFAULT 0,
    page_count INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'new',
    extracted_text TEXT NOT NULL DEFAULT '',
    subject VARCHAR(100) NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_file_type CHECK (file_type IN ('pdf', 'doc', 'ppt', 'img', 'other')),
    CONSTRAINT valid_status CHECK (status IN ('new', 'processing', 'completed', 'error')),
    CONSTRAINT valid_size CHECK (size >= 0)
);

CREATE INDEX IF NOT EXISTS idx_materials_user ON materials(user_id);
CREATE INDEX IF NOT EXISTS idx_materials_user_status ON materials(user_id, status);
CREATE INDEX IF NOT EXISTS idx_materials_created ON materials(created_at DESC);

CREATE TABLE IF NOT EXISTS tasks (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    material_id UUID REFERENCES materials(id) ON DELETE SET NULL,
    title VARCHAR(255) NOT NULL,
    task_type VARCHAR(50) NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP WITH TIME ZONE,
    due_date TIMESTAMP WITH TIME ZONE,
    estimated_minutes INTEGER NOT NULL DEFAULT 0,
    priority VARCHAR(10) NOT NULL DEFAULT 'medium',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_priority CHECK (priority IN ('low', 'medium', 'high')),
    CONSTRAINT valid_estimated_minutes CHECK (estimated_minutes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_tasks_user_completed ON tasks(user_id, completed);
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date) WHERE NOT completed AND due_date IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_tasks_material ON tasks(material_id) WHERE material_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS study_sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    material_id UUID REFERENCES materials(id) ON DELETE SET NULL,
    activity VARCHAR(20) NOT NULL,
    started_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    ended_at TIMESTAMP WITH TIME ZONE,
    duration INTEGER NOT NULL DEFAULT 0,
    pages_covered INTEGER NOT NULL DEFAULT 0,
    date DATE NOT NULL,

    CONSTRAINT valid_activity CHECK (activity IN ('reading', 'quiz', 'flashcards', 'notes')),
    CONSTRAINT valid_duration CHECK (duration >= 0),
    CONSTRAINT valid_pages CHECK (pages_covered >= 0)
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON study_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON study_sessions(user_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_material ON study_sessions(material_id) WHERE material_id IS NOT NULL;
`

const migration002Down = `
DROP TABLE IF EXISTS study_sessions;
DROP TABLE IF EXISTS tasks;
DROP TABLE IF EXISTS materials;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE PROGRESS AND NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create daily progress and notifications
-- Version: 003

-- One row per (user, date). The unique constraint is what serializes
-- concurrent same-day upserts; repositories lean on ON CONFLICT.
CREATE TABLE IF NOT EXISTS daily_progress (
    id SERIAL PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    study_time INTEGER NOT NULL DEFAULT 0,
    materials_processed INTEGER NOT NULL DEFAULT 0,
    tasks_completed INTEGER NOT NULL DEFAULT 0,
    pages_read INTEGER NOT NULL DEFAULT 0,
    goal_met BOOLEAN NOT NULL DEFAULT FALSE,

    UNIQUE(user_id, date),
    CONSTRAINT valid_counters CHECK (
        study_time >= 0 AND materials_processed >= 0
        AND tasks_completed >= 0 AND pages_read >= 0
    )
);

CREATE INDEX IF NOT EXISTS idx_daily_progress_user_date ON daily_progress(user_id, date DESC);

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    kind VARCHAR(20) NOT NULL,
    title VARCHAR(255) NOT NULL,
    text TEXT NOT NULL DEFAULT '',
    icon VARCHAR(50) NOT NULL DEFAULT '',
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_kind CHECK (kind IN ('update', 'success', 'warning', 'achievement', 'reminder', 'error'))
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE NOT read;
`

const migration003Down = `
DROP TABLE IF EXISTS notifications;
DROP TABLE IF EXISTS daily_progress;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_materials_tasks_sessions",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_progress_notifications",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
