package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/teamchat/internal/server/middleware"
	"github.com/iudanet/teamchat/internal/server/service"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth        *service.AuthService
	Workspaces  *service.WorkspaceService
	Channels    *service.ChannelService
	Messages    *service.MessageService
	Attachments *service.AttachmentService
}

// NewRouter builds the full route tree. Everything under /api except the
// credential endpoints requires a bearer token.
func NewRouter(svc Services, logger *slog.Logger) *chi.Mux {
	authHandler := NewAuthHandler(svc.Auth, logger)
	workspaceHandler := NewWorkspaceHandler(svc.Workspaces, logger)
	channelHandler := NewChannelHandler(svc.Channels, logger)
	messageHandler := NewMessageHandler(svc.Messages, logger)
	attachmentHandler := NewAttachmentHandler(svc.Attachments, logger)

	requireAuth := middleware.Auth(svc.Auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/workspaces", func(r chi.Router) {
				r.Post("/", workspaceHandler.Create)
				r.Get("/", workspaceHandler.List)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", workspaceHandler.Get)
					r.Put("/", workspaceHandler.Update)
					r.Delete("/", workspaceHandler.Delete)

					r.Route("/channels", func(r chi.Router) {
						r.Post("/", channelHandler.Create)
						r.Get("/", channelHandler.List)

						r.Route("/{channelID}", func(r chi.Router) {
							r.Get("/", channelHandler.Get)
							r.Put("/", channelHandler.Update)
							r.Delete("/", channelHandler.Delete)

							r.Post("/members", channelHandler.AddMember)
							r.Delete("/members/{userID}", channelHandler.RemoveMember)

							r.Route("/messages", func(r chi.Router) {
								r.Get("/", messageHandler.List)
								r.Post("/", messageHandler.Send)
								r.Put("/{messageID}", messageHandler.Edit)
								r.Delete("/{messageID}", messageHandler.Delete)
							})
						})
					})
				})
			})

			r.Route("/attachments", func(r chi.Router) {
				r.Post("/", attachmentHandler.Upload)
				r.Get("/{attachmentID}", attachmentHandler.Download)
			})
		})
	})

	return r
}
