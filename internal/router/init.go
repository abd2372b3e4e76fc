package router

import (
	"github.com/oksasatya/blog-engagement/internal/application"
	"github.com/oksasatya/blog-engagement/internal/container"
	"github.com/oksasatya/blog-engagement/internal/infrastructure/notify"
	"github.com/oksasatya/blog-engagement/internal/infrastructure/search"
	handlers "github.com/oksasatya/blog-engagement/internal/interface/http"
	"github.com/oksasatya/blog-engagement/internal/router/modules"
	"github.com/oksasatya/blog-engagement/pkg/helpers"
)

// Services are the application services built from the container.
type Services struct {
	Sessions   *application.SessionService
	Accounts   *application.AccountService
	Graph      *application.RelationshipService
	Engagement *application.EngagementService
	Gate       *application.PublicationService
	Directory  *application.DirectoryService
}

func buildNotifier() application.Notifier {
	if n := container.GetNotifier(); n != nil {
		return n
	}
	cfg, logger := container.GetConfig(), container.GetLogger()
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		return notify.NewQueueNotifier(pub, logger)
	}
	return notify.LogNotifier{Logger: logger}
}

func buildDirectory() *application.DirectoryService {
	var backend application.UserIndex
	if es := container.GetES(); es != nil {
		backend = search.NewUserIndex(es, container.GetConfig().ESUsersIndex)
	}
	return application.NewDirectoryService(backend, container.GetLogger())
}

// BuildServices wires every application service against the configured
// repositories.
func BuildServices() Services {
	users, posts := container.GetUserRepo(), container.GetPostRepo()
	logger, m := container.GetLogger(), container.GetMetrics()

	dir := buildDirectory()
	gate := application.NewPublicationService(posts, users, logger, m)
	return Services{
		Sessions: application.NewSessionService(users, container.GetJWT(), dir, logger),
		Accounts: application.NewAccountService(
			users,
			application.NewPasswordResetVault(users, logger, m),
			application.NewVerificationVault(users, logger, m),
			buildNotifier(),
			container.GetConfig(),
			logger,
		),
		Graph:      application.NewRelationshipService(users, posts, logger, m),
		Engagement: application.NewEngagementService(posts, users, gate, logger, m),
		Gate:       gate,
		Directory:  dir,
	}
}

// InitModules builds the services and registers every module with r.
// Call once during startup.
func InitModules(r *Registry) Services {
	svc := BuildServices()
	cfg, logger := container.GetConfig(), container.GetLogger()
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Sessions, svc.Accounts, cookies, logger), svc.Sessions))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Sessions, svc.Graph, svc.Directory, logger), svc.Sessions))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(svc.Engagement, svc.Gate, logger), svc.Sessions, cfg.RequireVerifiedReactions))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Graph, logger), svc.Sessions))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetPGPool()))
	}
	return svc
}
