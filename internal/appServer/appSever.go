// launching the server, model client and graceful shutdown
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/nutritionist/config"
	"github.com/ds124wfegd/nutritionist/internal/pkg/gemini"
	"github.com/ds124wfegd/nutritionist/internal/pkg/processor"
	"github.com/ds124wfegd/nutritionist/internal/pkg/prompt"
	"github.com/ds124wfegd/nutritionist/internal/service"
	"github.com/ds124wfegd/nutritionist/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewHandler wires the request chain around the given gateway.
func NewHandler(cfg *config.Config, gateway service.ModelGateway) (http.Handler, error) {
	imgProcessor := processor.NewImageProcessor(cfg.App.MaxImageDimension)
	analysisService := service.NewAnalysisService(gateway, imgProcessor, prompt.NewBuilder())
	analysisHandler := transport.NewAnalysisHandler(analysisService, cfg.App.MaxUploadBytes)

	return transport.InitRoutes(analysisHandler)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown log level %q, using info", cfg.Server.LogLevel)
		logrus.SetLevel(logrus.InfoLevel)
	}

	if cfg.Server.Mode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gateway, err := gemini.NewGateway(context.Background(), cfg.Gemini)
	if err != nil {
		logrus.Fatalf("Failed to initialize model gateway: %v", err)
	}
	defer gateway.Close()

	handler, err := NewHandler(cfg, gateway)
	if err != nil {
		logrus.Fatalf("Failed to initialize routes: %v", err)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":  cfg.Server.Host + ":" + cfg.Server.Port,
		"model": cfg.Gemini.Model,
	}).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
