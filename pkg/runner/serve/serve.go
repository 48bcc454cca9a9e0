package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"tableflip.dev/dayring/pkg/api"
	"tableflip.dev/dayring/pkg/reconciler"
)

// Serve runs the vault CRUD HTTP endpoint alongside the background
// reconciliation loop.
type Serve struct {
	Addr       string
	Handler    *api.Handler
	Reconciler *reconciler.Reconciler
}

func (n *Serve) Do(ctx context.Context) error {
	if n.Addr == "" {
		n.Addr = "127.0.0.1:5173"
	}

	if n.Reconciler != nil {
		go func() {
			if err := n.Reconciler.Run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "serve: reconciler: %v\n", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    n.Addr,
		Handler: api.NewRouter(n.Handler),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("serving vault api on http://%s\n", n.Addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
