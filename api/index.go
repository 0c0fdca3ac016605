// Package handler exposes the API as a single net/http function for serverless hosting.
package handler

import (
	"net/http"
	"sync"

	"investportal-backend/bootstrap"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
)

var (
	once    sync.Once
	serve   http.HandlerFunc
	initErr error
)

// Handler serves every rewritten request. The app is built on the first call so a cold start
// with bad configuration answers 500 instead of crashing the function.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		app, err := bootstrap.New()
		if err != nil {
			initErr = err
			log.Error().Err(err).Msg("serverless bootstrap failed")
			return
		}
		serve = adaptor.FiberApp(app)
	})
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}
	r.RequestURI = r.URL.String()
	serve(w, r)
}
