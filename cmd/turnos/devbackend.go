package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcic-turnos/turnos-web/internal/devbackend"
	"github.com/dcic-turnos/turnos-web/pkg/logger"
)

var devOpts struct {
	addr          string
	adminDNI      string
	adminPassword string
	rooms         []string
}

var devbackendCmd = &cobra.Command{
	Use:   "devbackend",
	Short: "Run an in-memory REST backend for local development",
	RunE:  runDevBackend,
}

func init() {
	f := devbackendCmd.Flags()
	f.StringVar(&devOpts.addr, "addr", ":3000", "listen address")
	f.StringVar(&devOpts.adminDNI, "admin-dni", "30000000", "DNI of the seeded admin user")
	f.StringVar(&devOpts.adminPassword, "admin-password", "admin123", "password of the seeded admin user")
	f.StringSliceVar(&devOpts.rooms, "rooms", []string{"Sala 1", "Sala 2", "Laboratorio"}, "rooms created at startup")
	rootCmd.AddCommand(devbackendCmd)
}

func runDevBackend(cmd *cobra.Command, args []string) error {
	log := logger.Init(logger.Options{Level: "debug", Pretty: true, Service: "turnos-devbackend", Version: version})

	srv, err := devbackend.New(devbackend.Options{
		AdminDNI:      devOpts.adminDNI,
		AdminPassword: devOpts.adminPassword,
		Rooms:         devOpts.rooms,
	}, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: devOpts.addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", devOpts.addr).Str("admin_dni", devOpts.adminDNI).Msg("dev backend listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
