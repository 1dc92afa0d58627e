package wire

import (
	"net/http"

	"studio-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", bookingHandler.List)
		r.Post("/", bookingHandler.Create)

		// static segments before /{id}
		r.Get("/upcoming", bookingHandler.Upcoming)
		r.Get("/stats", bookingHandler.Stats)
		r.Post("/check-conflict", bookingHandler.CheckConflict)
		r.Get("/available-slots", bookingHandler.AvailableSlots)

		r.Get("/{id}", bookingHandler.Get)
		r.Put("/{id}", bookingHandler.Update)
		r.Delete("/{id}", bookingHandler.Delete)
		r.Patch("/{id}/status", bookingHandler.UpdateStatus)
		r.Post("/{id}/receipt", bookingHandler.SendReceipt)
	})
}
