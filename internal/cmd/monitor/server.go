package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type httpServer struct {
	addr    string
	handler http.Handler
}

func (s httpServer) Run(ctx context.Context) error {
	server := http.Server{Addr: s.addr, Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
