package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/waterrocket/internal/config"
	"github.com/san-kum/waterrocket/internal/server"
	"github.com/san-kum/waterrocket/web"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the simulation API and web page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(v)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().Int("workers", 0, "sweep workers (0 uses GOMAXPROCS)")
	cmd.Flags().String("config", "", "config file path (yaml)")

	v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	v.BindPFlag("server.workers", cmd.Flags().Lookup("workers"))
	v.BindPFlag("config", cmd.Flags().Lookup("config"))
	v.SetEnvPrefix("WATERROCKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return cmd
}

func serve(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	cfg := server.Config{
		Addr:    v.GetString("server.addr"),
		Workers: v.GetInt("server.workers"),
	}

	srv := server.New(cfg, logger, web.Content)
	httpServer := srv.HTTPServer()

	ctx, stop := signalContext()
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
