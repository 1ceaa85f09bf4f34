package main

import (
	_ "embed"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/tomz197/gestris/internal/config"
)

//go:embed index.html
var htmlPage string

// renderPage fills the connection placeholders of the landing page.
func renderPage(sshHost string, sshPort int) string {
	r := strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.SSHPort}}", strconv.Itoa(sshPort),
	)
	return r.Replace(htmlPage)
}

func newRouter(cfg *config.Config) http.Handler {
	page := renderPage(cfg.SSHDisplayHost, cfg.SSHPort)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "ok")
	})
	return r
}

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	cfg.ConfigureLogging()

	addr := net.JoinHostPort(cfg.WebHost, strconv.Itoa(cfg.WebPort))
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logrus.Infof("starting web server on http://%s", addr)
	if err := server.ListenAndServe(); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
