package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lepinkainen/fakecheck/config"
	"github.com/lepinkainen/fakecheck/mockserver"
	"github.com/lepinkainen/fakecheck/types"
	"github.com/lepinkainen/fakecheck/ui"
	"github.com/rs/zerolog"
)

// ServeMockCmd serves a stand-in prediction endpoint for local development
type ServeMockCmd struct {
	Addr          string        `name:"addr" help:"Listen address" default:":8000"`
	FailStatus    int           `name:"fail-status" help:"Fail every prediction with this HTTP status"`
	Delay         time.Duration `name:"delay" help:"Wait this long before answering" default:"0s"`
	MaxUploadSize int64         `name:"max-upload-size" help:"Largest accepted upload in bytes" default:"536870912"`
}

// Run executes the serve-mock command until interrupted
func (cmd *ServeMockCmd) Run(appCtx *types.AppContext) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, closer, err := config.NewLogger(optionsFrom(appCtx), os.Stderr)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("FakeCheck mock endpoint %s", appCtx.VersionOrDefault())))
	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Listening on %s, POST /predict with field %q", cmd.Addr, optionsFrom(appCtx).Field)))

	return cmd.serve(ctx, cmd.newServer(optionsFrom(appCtx).Field, log), log)
}

func (cmd *ServeMockCmd) newServer(field string, log zerolog.Logger) *http.Server {
	handler := mockserver.NewRouter(mockserver.Options{
		Field:         field,
		MaxUploadSize: cmd.MaxUploadSize,
		FailStatus:    cmd.FailStatus,
		Delay:         cmd.Delay,
	}, log)

	return &http.Server{
		Addr:              cmd.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs srv until ctx is done, then drains in-flight requests
func (cmd *ServeMockCmd) serve(ctx context.Context, srv *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock endpoint failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down mock endpoint")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down mock endpoint: %w", err)
	}
	return nil
}
