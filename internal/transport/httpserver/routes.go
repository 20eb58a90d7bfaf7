package httpserver

import (
	"net/http"
	"time"

	"gear-tracker-go/internal/config"
	"gear-tracker-go/internal/transport/httpserver/handler"
	authmw "gear-tracker-go/internal/transport/httpserver/middleware"
	"gear-tracker-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewIdentityAuth(cfg.Auth, users, log)
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/instruments", handlers.ListInstruments)
			r.Post("/instruments", handlers.CreateInstrument)
			r.Get("/instruments/{id}", handlers.GetInstrument)
			r.Put("/instruments/{id}", handlers.UpdateInstrument)
			r.Delete("/instruments/{id}", handlers.DeleteInstrument)

			r.Get("/instruments/{id}/images", handlers.ListInstrumentImages)
			r.Post("/instruments/{id}/images", handlers.UploadInstrumentImage)
			r.Put("/instruments/{id}/images/order", handlers.ReorderInstrumentImages)
			r.Delete("/instruments/{id}/images/{imageID}", handlers.DeleteInstrumentImage)

			r.Get("/instruments/{id}/maintenance", handlers.ListMaintenanceRecords)
			r.Post("/instruments/{id}/maintenance", handlers.CreateMaintenanceRecord)
			r.Put("/instruments/{id}/maintenance/{recordID}", handlers.UpdateMaintenanceRecord)
			r.Delete("/instruments/{id}/maintenance/{recordID}", handlers.DeleteMaintenanceRecord)

			r.Get("/instruments/{id}/schedule", handlers.ListScheduleEntries)
			r.Post("/instruments/{id}/schedule", handlers.CreateScheduleEntry)
			r.Put("/instruments/{id}/schedule/{entryID}", handlers.UpdateScheduleEntry)
			r.Delete("/instruments/{id}/schedule/{entryID}", handlers.DeleteScheduleEntry)

			r.Get("/instruments/{id}/values", handlers.ListValueHistory)
			r.Post("/instruments/{id}/values", handlers.AddValueEntry)

			r.Get("/bands", handlers.ListBands)
			r.Post("/bands", handlers.CreateBand)
			r.Get("/bands/{id}", handlers.GetBand)
			r.Put("/bands/{id}", handlers.UpdateBand)
			r.Delete("/bands/{id}", handlers.DeleteBand)

			r.Get("/bands/{id}/members", handlers.ListBandMembers)
			r.Post("/bands/{id}/members", handlers.AddBandMember)
			r.Put("/bands/{id}/members/{userID}", handlers.UpdateBandMemberRole)
			r.Delete("/bands/{id}/members/{userID}", handlers.RemoveBandMember)

			r.Get("/gigs", handlers.ListGigs)
			r.Post("/gigs", handlers.CreateGig)
			r.Get("/gigs/{id}", handlers.GetGig)
			r.Put("/gigs/{id}", handlers.UpdateGig)
			r.Delete("/gigs/{id}", handlers.DeleteGig)

			r.Get("/gigs/{id}/gear", handlers.ListGigGear)
			r.Post("/gigs/{id}/gear", handlers.AddGigGear)
			r.Patch("/gigs/{id}/gear/{instrumentID}", handlers.SetGigGearPacked)
			r.Delete("/gigs/{id}/gear/{instrumentID}", handlers.RemoveGigGear)
		})
	})

	return r
}
