package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/tenant-console/api"
	"github.com/jrsteele09/tenant-console/cache"
	"github.com/jrsteele09/tenant-console/internal/config"
	"github.com/jrsteele09/tenant-console/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tenant-console",
		Short:         "Multi-tenant admin console in front of the backend REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			// registered once so restarts after a panic share one channel
			stop, release := notifyStop()
			defer release()

			for {
				err := run(stop)
				if err == nil {
					break
				}
				if errors.Is(err, errPanic) {
					time.Sleep(1 * time.Second)
					continue
				}
				log.Error().Err(err).Msg("Error running server")
				return err
			}
			log.Info().Msg("Server stopped")
			return nil
		},
	}
	root.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

// loadEnv loads the dotenv file. A missing default file is fine, a missing
// file that was asked for explicitly is not.
func loadEnv(path string, explicit bool) error {
	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

var errPanic = errors.New("panic recovered")

func run(stop <-chan os.Signal) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errPanic
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()
	store, err := cache.New(ctx, c)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	client, err := api.New(api.Options{
		BaseURL:        c.GetAPIBaseURL(),
		Timeout:        c.GetAPITimeout(),
		RefreshTimeout: c.GetRefreshTimeout(),
		RefreshGrace:   c.GetRefreshGrace(),
	})
	if err != nil {
		return err
	}

	handler, err := server.New(c, client, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-stop:
	}
	return shutdown(srv)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	// contexts without a request logger fall back to the global one
	zerolog.DefaultContextLogger = &log.Logger
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

// notifyStop relays SIGINT and SIGTERM until release is called
func notifyStop() (<-chan os.Signal, func()) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop, func() { signal.Stop(stop) }
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
