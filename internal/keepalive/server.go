package keepalive

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/common"
	"github.com/uybinhphan/goatcounter-bot/internal/config"
)

var Module = fx.Options(
	fx.Provide(NewServer),
	fx.Invoke(registerHooks),
)

const liveBody = "✅ Bot is running."

// Server is the small HTTP server that keeps free hosts from idling the bot
// out, and doubles as the Prometheus metrics endpoint.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.KeepAlive.Addr,
			Handler:           Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With(zap.String("component", "keepalive")),
	}
}

func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(liveBody))
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func registerHooks(lc fx.Lifecycle, s *Server, mode common.Mode) {
	if mode != common.ModeBot {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.logger.Info("keepalive server listening", zap.String("addr", s.srv.Addr))
				if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("keepalive server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.srv.Shutdown(ctx)
		},
	})
}
