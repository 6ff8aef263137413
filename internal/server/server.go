package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"blogapi/config"
	"blogapi/internal/handlers"
	"blogapi/internal/middleware"
	"blogapi/internal/records"
)

type Server struct {
	cfg    *config.Config
	logger *logrus.Logger
	home   *handlers.HomeHandler
	posts  *handlers.PostHandler
	users  *handlers.UserHandler
}

func New(cfg *config.Config, logger *logrus.Logger, posts *records.PostRecords, users *records.UserRecords) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		home:   &handlers.HomeHandler{Records: posts},
		posts:  &handlers.PostHandler{Records: posts},
		users:  &handlers.UserHandler{Records: users},
	}
}

// Handler собирает роуты и оборачивает их в middleware и CORS.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.home.Index).Methods("GET")

	router.HandleFunc("/post", s.posts.List).Methods("GET")
	router.HandleFunc("/post", s.posts.Create).Methods("POST")
	router.HandleFunc("/post/title/{id}", s.posts.UpdateTitle).Methods("PUT")
	router.HandleFunc("/post/content/{id}", s.posts.UpdateContent).Methods("PUT")
	router.HandleFunc("/post/image/{id}", s.posts.UpdateImage).Methods("PUT")
	router.HandleFunc("/post/increment-likes/{id}", s.posts.IncrementLikes).Methods("PUT")
	router.HandleFunc("/post/decrement-likes/{id}", s.posts.DecrementLikes).Methods("PUT")
	router.HandleFunc("/post/{id}", s.posts.Get).Methods("GET")
	router.HandleFunc("/post/{id}", s.posts.Delete).Methods("DELETE")

	router.HandleFunc("/user", s.users.List).Methods("GET")
	router.HandleFunc("/user", s.users.Create).Methods("POST")
	router.HandleFunc("/user", s.users.DeleteAll).Methods("DELETE")
	router.HandleFunc("/user/login", s.users.Login).Methods("POST")
	router.HandleFunc("/user/username/{username}", s.users.GetByUsername).Methods("GET")
	router.HandleFunc("/user/password/{id}", s.users.UpdatePassword).Methods("PUT")
	router.HandleFunc("/user/admin/{id}", s.users.ToggleAdmin).Methods("PATCH")
	router.HandleFunc("/user/{id}", s.users.Get).Methods("GET")
	router.HandleFunc("/user/{id}", s.users.Delete).Methods("DELETE")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{s.cfg.Server.CORSOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	})

	return corsHandler.Handler(middleware.Logger(s.logger)(router))
}

func (s *Server) Start() error {
	s.logger.WithField("address", s.cfg.Server.Addr).Info("server has been started")
	return http.ListenAndServe(s.cfg.Server.Addr, s.Handler())
}
