package gin

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginlib "github.com/gin-gonic/gin"

	"github.com/Visionary-Advance/xoco-coffee/internal/config"
)

// NewEngine builds the storefront engine: panic recovery plus the CORS
// headers the browser frontend needs. Release mode when env is production.
func NewEngine(env string) *ginlib.Engine {
	if env == "production" {
		ginlib.SetMode(ginlib.ReleaseMode)
	}
	r := ginlib.New()
	r.Use(ginlib.Recovery())
	r.Use(cors())
	return r
}

func cors() ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Server wraps the engine in an http.Server so in-flight checkouts can
// drain on shutdown.
type Server struct {
	srv *http.Server
}

func NewServer(cfg config.ServerConfig, engine *ginlib.Engine) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Address(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run blocks serving requests until Shutdown is called or the listener
// fails. A clean shutdown returns nil.
func (s *Server) Run() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
