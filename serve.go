package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/korylprince/twin-client/chatbot"
	"github.com/korylprince/twin-client/httpapi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a chat session and status panel over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listenAddr != "" {
				a.config.ListenAddr = listenAddr
			}

			log, closeLog, err := newLogger(a.config, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			return serve(cmd.Context(), a.config, log)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides TWIN_LISTENADDR)")

	return cmd
}

//newHandler wraps the panel API with compression, CORS and panic recovery
func newHandler(config *Config, log *logrus.Logger, sess *chatbot.Session) http.Handler {
	r := httpapi.NewRouter(log, sess, config.AllowedOrigins)

	chain := handlers.CompressHandler(http.StripPrefix(config.Prefix, r))
	chain = handlers.CORS(
		handlers.AllowedOrigins(config.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(chain)

	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log),
		handlers.PrintRecoveryStack(config.Debug),
	)(chain)
}

func serve(ctx context.Context, config *Config, log *logrus.Logger) error {
	sess := chatbot.NewSession(chatbot.NewClient(config.BackendURL, nil), log)
	go sess.Status.Run(ctx, config.StatusRefresh)

	srv := &http.Server{
		Addr:    config.ListenAddr,
		Handler: newHandler(config, log, sess),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithFields(logrus.Fields{
		"addr":    config.ListenAddr,
		"backend": config.BackendURL,
	}).Info("Listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
