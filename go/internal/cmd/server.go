package main

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/kpcrmv4/AProject/go/internal/auth"
	"github.com/kpcrmv4/AProject/go/internal/jsoncodec"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(services *Services, cfg *Config) *http.Server {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	opts := []connect.HandlerOption{
		jsoncodec.HandlerOption(),
		connect.WithInterceptors(
			newTimeoutInterceptor(cfg.Server.RequestTimeout),
			auth.NewInterceptor(),
		),
	}
	registerServices(mux, services, opts...)

	setupHealthCheck(mux)

	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func registerServices(mux *http.ServeMux, services *Services, opts ...connect.HandlerOption) {
	services.AccessCodes.RegisterRoutes(mux, opts...)
	services.Timestamps.RegisterRoutes(mux, opts...)
	services.Adjudication.RegisterRoutes(mux, opts...)
	services.Rankings.RegisterRoutes(mux, opts...)
	services.RaceControl.RegisterRoutes(mux, opts...)
}

// newTimeoutInterceptor bounds every unary call by the configured request timeout.
func newTimeoutInterceptor(timeout time.Duration) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if timeout <= 0 {
				return next(ctx, req)
			}
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, req)
		}
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
