package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/client-dashboard/internal/chat"
	"github.com/sells-group/client-dashboard/internal/config"
	"github.com/sells-group/client-dashboard/internal/dashboard"
)

const (
	sessionTTL    = time.Hour
	pruneInterval = 10 * time.Minute
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := newFetcher(cfg)
		if err != nil {
			return err
		}

		sessions := chat.NewRegistry()
		handler := buildHandler(ctx, cfg, f, chat.NewBuilder(f), sessions)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return startServer(gctx, handler, resolvePort(servePort, cfg.Server.Port))
		})
		g.Go(func() error {
			pruneSessions(gctx, sessions, pruneInterval, sessionTTL)
			return nil
		})
		return g.Wait()
	},
}

// buildHandler wires the dashboard routes. ctx bounds background reply
// streams.
func buildHandler(ctx context.Context, c *config.Config, stages dashboard.StageSource, chats *chat.Builder, sessions *chat.Registry) http.Handler {
	streamer := chat.NewStreamer(
		chat.NewCannedResponder(),
		chat.WithWordsPerSecond(c.Chat.WordsPerSecond),
	)
	srv := dashboard.New(ctx, stages, chats, sessions, streamer, dashboard.Options{
		Stage:         c.StageOptions(),
		AllowedOrigin: c.Server.AllowedOrigin,
	})
	return srv.Routes()
}

// resolvePort prefers the --port flag over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves handler on port until ctx is cancelled, then shuts
// down gracefully.
func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- eris.Wrap(err, "server listen")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown")
	}
	return <-errCh
}

// pruneSessions drops chat sessions older than ttl every interval until ctx
// is done.
func pruneSessions(ctx context.Context, sessions *chat.Registry, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Prune(now.Add(-ttl)); n > 0 {
				zap.L().Debug("pruned chat sessions", zap.Int("count", n))
			}
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
