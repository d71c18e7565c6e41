package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fairwaylabs/trip-system/docs"
	"github.com/fairwaylabs/trip-system/handlers"
	"github.com/fairwaylabs/trip-system/middleware"
	"github.com/fairwaylabs/trip-system/models"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Trip      *handlers.TripHandler
	Team      *handlers.TeamHandler
	Roster    *handlers.RosterHandler
	Course    *handlers.CourseHandler
	Session   *handlers.SessionHandler
	Match     *handlers.MatchHandler
	Press     *handlers.PressHandler
	Draft     *handlers.DraftHandler
	Pairing   *handlers.PairingHandler
	TeeSheet  *handlers.TeeSheetHandler
	Standings *handlers.StandingsHandler
	Admin     *handlers.AdminHandler
	WebSocket *handlers.WebSocketHandler
}

// SetupRoutes mounts the whole API. Reads are public; anything that changes
// state sits behind RequireAuth, with service-level checks deciding who may
// do what inside a trip.
func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret string) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.RequireAuth(jwtSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/change-password", h.Auth.ChangePassword)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", h.User.GetUserByID)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{userID}", h.User.UpdateProfile)
			r.Patch("/{userID}/handicap", h.User.UpdateHandicap)
			r.Post("/{userID}/avatar", h.User.UploadAvatar)
			r.Delete("/{userID}", h.User.DeleteUser)
		})
	})

	router.Route("/trips", func(r chi.Router) {
		r.Get("/", h.Trip.ListHandler)
		r.Get("/{tripID}", h.Trip.GetByIDHandler)
		r.Get("/{tripID}/teams", h.Team.ListByTripHandler)
		r.Get("/{tripID}/members", h.Roster.ListMembersHandler)
		r.Get("/{tripID}/sessions", h.Session.ListByTripHandler)
		r.Get("/{tripID}/standings", h.Standings.GetTripStandingsHandler)
		r.Get("/{tripID}/draft", h.Draft.GetBoardHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", h.Trip.CreateHandler)
			r.Put("/{tripID}", h.Trip.UpdateDetailsHandler)
			r.Patch("/{tripID}/status", h.Trip.UpdateStatusHandler)
			r.Delete("/{tripID}", h.Trip.DeleteHandler)

			r.Post("/{tripID}/teams", h.Team.CreateHandler)

			r.Patch("/{tripID}/members/{memberID}/role", h.Roster.SetMemberRoleHandler)
			r.Patch("/{tripID}/members/{memberID}/team", h.Roster.AssignTeamHandler)
			r.Delete("/{tripID}/members/{memberID}", h.Roster.RemoveMemberHandler)

			r.Post("/{tripID}/invites", h.Roster.InviteHandler)
			r.Get("/{tripID}/invites", h.Roster.ListInvitesHandler)
			r.Delete("/{tripID}/invites/{inviteID}", h.Roster.RevokeInviteHandler)

			r.Post("/{tripID}/sessions", h.Session.CreateHandler)
			r.Post("/{tripID}/draft", h.Draft.StartHandler)
			r.Post("/{tripID}/export", h.Standings.ExportTripHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{teamID}", h.Team.UpdateHandler)
			r.Post("/{teamID}/logo", h.Team.UploadLogoHandler)
			r.Delete("/{teamID}", h.Team.DeleteHandler)
		})
	})

	router.Route("/invites", func(r chi.Router) {
		r.Get("/{token}", h.Roster.GetInviteHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{token}/accept", h.Roster.AcceptInviteHandler)
			r.Post("/{token}/decline", h.Roster.DeclineInviteHandler)
		})
	})

	router.Route("/courses", func(r chi.Router) {
		r.Get("/", h.Course.ListHandler)
		r.Get("/{courseID}", h.Course.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", h.Course.CreateHandler)
			r.Put("/{courseID}", h.Course.UpdateHandler)
			r.Delete("/{courseID}", h.Course.DeleteHandler)
			r.Post("/{courseID}/tee-sets", h.Course.AddTeeSetHandler)
		})
	})

	router.Route("/tee-sets", func(r chi.Router) {
		r.Get("/{teeSetID}", h.Course.GetTeeSetHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{teeSetID}", h.Course.UpdateTeeSetHandler)
			r.Delete("/{teeSetID}", h.Course.DeleteTeeSetHandler)
		})
	})

	router.Route("/sessions", func(r chi.Router) {
		r.Get("/{sessionID}", h.Session.GetByIDHandler)
		r.Get("/{sessionID}/pairings/suggestions", h.Pairing.SuggestHandler)
		r.Get("/{sessionID}/pairings/analysis", h.Pairing.AnalyzeHandler)
		r.Get("/{sessionID}/teesheet", h.TeeSheet.GetHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{sessionID}", h.Session.UpdateHandler)
			r.Patch("/{sessionID}/status", h.Session.UpdateStatusHandler)
			r.Delete("/{sessionID}", h.Session.DeleteHandler)

			r.Post("/{sessionID}/matches", h.Match.SeedMatchesHandler)
			r.Post("/{sessionID}/teesheet", h.TeeSheet.BuildHandler)
			r.Delete("/{sessionID}/teesheet", h.TeeSheet.ClearHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByIDHandler)
		r.Get("/{matchID}/presses", h.Press.ListByMatchHandler)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{matchID}/holes", h.Match.RecordHoleHandler)
			r.Delete("/{matchID}/holes/latest", h.Match.UndoHoleHandler)
			r.Post("/{matchID}/strokes/refresh", h.Match.RefreshStrokesHandler)
			r.Post("/{matchID}/presses", h.Press.OpenHandler)
		})
	})

	router.Route("/presses", func(r chi.Router) {
		r.Use(requireAuth)
		r.Delete("/{pressID}", h.Press.DeleteHandler)
	})

	router.Route("/drafts", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/{draftID}/picks", h.Draft.MakePickHandler)
		r.Post("/{draftID}/autopick", h.Draft.AutoPickHandler)
		r.Post("/{draftID}/complete", h.Draft.CompleteHandler)
		r.Delete("/{draftID}", h.Draft.CancelHandler)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/stats", h.Admin.GetStatsHandler)
		r.Get("/users", h.Admin.ListUsersHandler)
		r.Delete("/users/{userID}", h.Admin.DeleteUserHandler)
	})

	// Live rooms. Browsers cannot set headers on the upgrade request, so
	// these stay public; the rooms only ever push data out.
	router.Route("/ws", func(r chi.Router) {
		r.Get("/matches/{matchID}", h.WebSocket.ServeMatch)
		r.Get("/sessions/{sessionID}", h.WebSocket.ServeSession)
		r.Get("/trips/{tripID}", h.WebSocket.ServeTrip)
	})

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPI)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
