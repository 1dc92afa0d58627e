package wire

import (
	"net/http"

	"studio-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireClient(r chi.Router, clientHandler *adaptor.ClientHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/clients", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", clientHandler.List)
		r.Post("/", clientHandler.Create)
		r.Get("/{id}", clientHandler.Get)
		r.Put("/{id}", clientHandler.Update)
		r.Delete("/{id}", clientHandler.Delete)
	})
}
