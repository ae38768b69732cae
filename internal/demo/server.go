// Package demo serves the static landing page and its single JSON endpoint.
package demo

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TableBooking/internal/api/handlers"
)

//go:embed static/*
var staticFS embed.FS

// DataResponse ответ GET /api/data
type DataResponse struct {
	Message string `json:"message"`
}

type Logger interface {
	Info(format string, v ...interface{})
}

// Server демонстрационный бэкенд
type Server struct {
	message string
	logger  Logger
}

func NewServer(message string, logger Logger) *Server {
	return &Server{message: message, logger: logger}
}

// Routes возвращает роутер: GET /api/data и статика из static/
func (s *Server) Routes() http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static/ встроен при компиляции
		panic(err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/data", s.handleData).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)
	return r
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("GET /api/data - remote=%s", r.RemoteAddr)
	handlers.RespondJSON(w, http.StatusOK, DataResponse{Message: s.message})
}
