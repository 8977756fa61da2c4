package container

import (
	"amora-be/internal/auth"
	"amora-be/internal/config"
	"amora-be/internal/handler"
	"amora-be/internal/repository"
	"amora-be/internal/service"
	"amora-be/internal/service/identity"
	"amora-be/internal/service/match"
	"amora-be/pkg/database"
	"amora-be/pkg/logger"
	"amora-be/pkg/redis"
)

// Repositories aggregates all repository interfaces
type Repositories struct {
	Profiles    repository.ProfileRepository
	Personality repository.PersonalityRepository
	Messages    repository.MessageRepository
	Answers     repository.AnswerRepository
	Analytics   repository.AnalyticsRepository
	Privacy     repository.PrivacyRepository
}

// Handlers aggregates all HTTP handlers
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Profile   *handler.ProfileHandler
	Match     *handler.MatchHandler
	Chat      *handler.ChatHandler
	Question  *handler.QuestionHandler
	Privacy   *handler.PrivacyHandler
	Analytics *handler.AnalyticsHandler
}

// Container holds all application dependencies, wired once at startup
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	KV           *redis.Client
	DB           *database.PostgresDB
	Repositories Repositories
	Services     *service.Services
	Cascade      *auth.Cascade
	Handlers     Handlers
}

// New wires the full dependency graph. kv and db are created by the caller
// so startup can decide how to handle connection failures; db may be nil
// when no analytics database is configured.
func New(cfg *config.Config, log *logger.Logger, kv *redis.Client, db *database.PostgresDB) *Container {
	repos := Repositories{
		Profiles:    repository.NewProfileRepository(kv),
		Personality: repository.NewPersonalityRepository(kv),
		Messages:    repository.NewMessageRepository(kv),
		Answers:     repository.NewAnswerRepository(kv),
	}
	if db != nil {
		repos.Analytics = repository.NewAnalyticsRepository(db)
		repos.Privacy = repository.NewPrivacyRepository(db)
	}

	identitySvc := identity.NewService(cfg, log.Named("identity"))
	services := &service.Services{
		Identity: identitySvc,
		Match:    match.NewService(repos.Profiles, repos.Personality, log.Named("match")),
	}

	cascade := auth.NewCascade(identitySvc, cfg.DemoEmailDomain, log.Named("cascade"))

	handlers := Handlers{
		Health:   handler.NewHealthHandler(kv, db, log.Named("health")),
		Auth:     handler.NewAuthHandler(identitySvc, cfg.DemoEmailDomain, log.Named("auth")),
		Profile:  handler.NewProfileHandler(repos.Profiles, repos.Personality, log.Named("profile")),
		Match:    handler.NewMatchHandler(services.Match, log.Named("match")),
		Chat:     handler.NewChatHandler(repos.Messages, log.Named("chat")),
		Question: handler.NewQuestionHandler(repos.Answers, log.Named("question")),
	}
	if db != nil {
		handlers.Privacy = handler.NewPrivacyHandler(repos.Privacy, log.Named("privacy"))
		handlers.Analytics = handler.NewAnalyticsHandler(repos.Analytics, log.Named("analytics"))
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		KV:           kv,
		DB:           db,
		Repositories: repos,
		Services:     services,
		Cascade:      cascade,
		Handlers:     handlers,
	}
}
