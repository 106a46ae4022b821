package http

import (
	"context"
	"errors"
	"net/http"

	"incasso/internal/core"
)

func loggingMiddleware(logger core.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.InfoContext(
			r.Context(),
			"request",
			"method", r.Method,
			"path", r.URL.Path,
		)

		next.ServeHTTP(w, r)
	})
}

type Server struct {
	httpServer *http.Server
	handler    Handler
	logger     core.Logger
}

func NewServer(
	service DirectDebitService,
	creditor core.Creditor,
	logger core.Logger,
	config Config,
) *Server {
	handler := NewHandler(service, creditor, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /mandates", handler.PostMandates)
	mux.HandleFunc("GET /mandates/{reference}", handler.GetMandate)
	mux.HandleFunc("POST /mandates/{reference}/activate", handler.PostMandateActivate)
	mux.HandleFunc("POST /mandates/{reference}/cancel", handler.PostMandateCancel)

	mux.HandleFunc("POST /batches", handler.PostBatches)
	mux.HandleFunc("GET /batches/{reference}", handler.GetBatch)
	mux.HandleFunc("POST /batches/{reference}/generate", handler.PostBatchGenerate)
	mux.HandleFunc("POST /batches/{reference}/submit", handler.PostBatchSubmit)
	mux.HandleFunc("POST /batches/{reference}/process", handler.PostBatchProcess)
	mux.HandleFunc("POST /batches/{reference}/returns", handler.PostBatchReturns)
	mux.HandleFunc("GET /batches/{reference}/xml", handler.GetBatchXML)

	httpServer := &http.Server{
		Addr:         config.Address,
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  config.Timeout,
		WriteTimeout: config.Timeout,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		logger:     logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Starting HTTP server", "address", s.httpServer.Addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "HTTP server error", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
