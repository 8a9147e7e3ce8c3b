package middleware

import (
	"net/http"

	"studyabroad-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS allows credentialed requests from the configured front-end origins.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler
}
