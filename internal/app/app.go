package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/practicelog/practicelog/internal/config"
	"github.com/practicelog/practicelog/internal/db"
	"github.com/practicelog/practicelog/internal/metrics"
	"github.com/practicelog/practicelog/internal/ownership"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/practicelog/practicelog/internal/service"
	"github.com/practicelog/practicelog/internal/storage"
)

type App struct {
	Cfg                    *config.Config
	DB                     *sqlx.DB
	AuthService            *service.AuthService
	UserService            *service.UserService
	GoalService            *service.GoalService
	PracticeSessionService *service.PracticeSessionService
	ExportService          *service.ExportService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	exportStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	return Build(cfg, database, exportStorage), nil
}

// Build wires repositories and services over an open, migrated database.
// exportStorage may be nil.
func Build(cfg *config.Config, database *sqlx.DB, exportStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	sessionRepository := repository.NewPracticeSessionRepository(database)

	guard := ownership.NewGuard(goalRepository, sessionRepository)
	guard.OnDeny = func(resource string, reason ownership.Reason) {
		metrics.RecordDenied(resource, string(reason))
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.TokenEmailVerifyExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	userService := service.NewUserService(userRepository, authService)
	goalService := service.NewGoalService(goalRepository, sessionRepository, guard)
	sessionService := service.NewPracticeSessionService(sessionRepository, guard)
	exportService := service.NewExportService(goalRepository, sessionRepository, exportStorage, cfg.ExportURLExpiry)

	return &App{
		Cfg:                    cfg,
		DB:                     database,
		AuthService:            authService,
		UserService:            userService,
		GoalService:            goalService,
		PracticeSessionService: sessionService,
		ExportService:          exportService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
