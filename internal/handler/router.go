package handler

import (
	"net/http"

	"resume-parser/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(resumeHandler *ResumeHandler, logger domain.Logger, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "resume-parser"})
	}).Methods("GET")

	router.HandleFunc("/", resumeHandler.Index).Methods("GET")
	router.HandleFunc("/upload", resumeHandler.Upload).Methods("POST")
	router.HandleFunc("/save_edited", resumeHandler.SaveEdited).Methods("POST")
	router.HandleFunc("/download/{filename}", resumeHandler.Download).Methods("GET")

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			RequestIDHeader,
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
