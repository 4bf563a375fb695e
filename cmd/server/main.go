// StudyMind server entrypoint: wires PostgreSQL, Redis, the Gemini
// client, the background scheduler, and the HTTP API together.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/studymind/studymind-server/config"
	"github.com/studymind/studymind-server/internal/application/command"
	"github.com/studymind/studymind-server/internal/application/query"
	"github.com/studymind/studymind-server/internal/infrastructure/external/gemini"
	"github.com/studymind/studymind-server/internal/infrastructure/persistence/postgres"
	"github.com/studymind/studymind-server/internal/infrastructure/persistence/redis"
	"github.com/studymind/studymind-server/internal/infrastructure/scheduler"
	httpiface "github.com/studymind/studymind-server/internal/interface/http"
	"github.com/studymind/studymind-server/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatal("failed to load configuration", logger.Err(err))
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Log.Level),
		AddCaller: cfg.IsDevelopment(),
	})

	log.Info("starting studymind server",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", logger.Err(err))
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─────────────────────────────────────────────────────────────────────────
	// Infrastructure
	// ─────────────────────────────────────────────────────────────────────────

	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	defer connectCancel()

	db, err := postgres.NewConnection(connectCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to postgres", logger.String("host", cfg.Database.Host))

	if err := postgres.NewMigrator(db).Migrate(connectCtx); err != nil {
		return err
	}

	redisClient, err := redis.NewClient(connectCtx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info("connected to redis", logger.String("addr", cfg.Redis.Addr()))

	sessionStore := redis.NewSessionStore(redisClient, 24*time.Hour)
	unreadCache := redis.NewUnreadCache(redisClient)

	geminiCfg := gemini.DefaultClientConfig(cfg.Gemini.APIKey)
	geminiCfg.BaseURL = cfg.Gemini.BaseURL
	geminiCfg.Model = cfg.Gemini.Model
	geminiCfg.VisionModel = cfg.Gemini.VisionModel
	geminiCfg.Timeout = cfg.Gemini.Timeout
	geminiCfg.Temperature = cfg.Gemini.Temperature
	geminiCfg.MaxOutputTokens = cfg.Gemini.MaxOutputTokens
	geminiCfg.Logger = log
	aiClient := gemini.NewClient(geminiCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// Repositories
	// ─────────────────────────────────────────────────────────────────────────

	userRepo := postgres.NewUserRepository(db)
	materialRepo := postgres.NewMaterialRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	notifRepo := postgres.NewNotificationRepository(db)
	progressRepo := postgres.NewProgressRepository(db)

	// ─────────────────────────────────────────────────────────────────────────
	// Application layer
	// ─────────────────────────────────────────────────────────────────────────

	notifier := command.NewNotifier(notifRepo, unreadCache, log)
	recordActivity := command.NewRecordActivityHandler(userRepo, progressRepo, notifier, log)

	deps := httpiface.Dependencies{
		RegisterUser:      command.NewRegisterUserHandler(userRepo, sessionStore, notifier, log),
		AuthenticateUser:  command.NewAuthenticateUserHandler(userRepo, sessionStore, log),
		Logout:            command.NewLogoutHandler(sessionStore),
		UpdateSettings:    command.NewUpdateSettingsHandler(userRepo),
		DeleteUser:        command.NewDeleteUserHandler(userRepo, unreadCache),
		UploadMaterial:    command.NewUploadMaterialHandler(materialRepo, log),
		DeleteMaterial:    command.NewDeleteMaterialHandler(materialRepo, taskRepo, sessionRepo),
		ProcessMaterial:   command.NewProcessMaterialHandler(materialRepo, aiClient, recordActivity, log),
		GenerateStudyPlan: command.NewGenerateStudyPlanHandler(taskRepo, materialRepo),
		CreateTask:        command.NewCreateTaskHandler(taskRepo, materialRepo),
		ToggleTask:        command.NewToggleTaskHandler(taskRepo, recordActivity, log),
		DeleteTask:        command.NewDeleteTaskHandler(taskRepo),
		StartSession:      command.NewStartSessionHandler(sessionRepo, materialRepo),
		EndSession:        command.NewEndSessionHandler(sessionRepo, userRepo, recordActivity, log),
		RecordActivity:    recordActivity,
		MarkRead:          command.NewMarkNotificationReadHandler(notifRepo, unreadCache),
		MarkAllRead:       command.NewMarkAllNotificationsReadHandler(notifRepo, unreadCache),
		GenerateQuiz:      command.NewGenerateQuizHandler(materialRepo, aiClient),
		AskQuestion:       command.NewAskQuestionHandler(materialRepo, aiClient),
		ExplainConcept:    command.NewExplainConceptHandler(aiClient),

		GetDashboard:     query.NewGetDashboardHandler(userRepo, progressRepo, materialRepo, taskRepo, notifRepo, unreadCache, log),
		GetWeeklySummary: query.NewGetWeeklySummaryHandler(userRepo, progressRepo),
		GetHeatmap:       query.NewGetHeatmapHandler(progressRepo),
		ListMaterials:    query.NewListMaterialsHandler(materialRepo),
		ListTasks:        query.NewListTasksHandler(taskRepo),
		ListSessions:     query.NewListSessionsHandler(sessionRepo),
		ListNotification: query.NewListNotificationsHandler(notifRepo),

		Tokens: sessionStore,
		Logger: log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Background jobs
	// ─────────────────────────────────────────────────────────────────────────

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(scheduler.Config{
			Timezone:          cfg.App.Location,
			DeadlineCheckTime: cfg.Scheduler.DeadlineCheckTime,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}, log)

		if err := sched.AddMinutely(scheduler.NewReminderJob(userRepo, notifier, cfg.App.Location, log)); err != nil {
			return err
		}
		if err := sched.AddDaily(scheduler.NewDeadlineJob(taskRepo, notifier, log)); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP server
	// ─────────────────────────────────────────────────────────────────────────

	server := httpiface.NewServer(cfg.HTTP, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
