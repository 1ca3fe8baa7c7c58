package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/ipgen/datarecording"
	"github.com/sarchlab/ipgen/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port   int
		open   bool
		record string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the core catalog over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Port
			}

			s := server.NewServer(a.registry).
				WithLogger(a.logger).
				WithPortNumber(port)

			if path := firstNonEmpty(record, a.cfg.Record); path != "" {
				reader, err := datarecording.OpenBuildReader(path)
				if err != nil {
					return err
				}
				defer reader.Close()

				s.WithBuildReader(reader)
			}

			url, err := s.Start()
			if err != nil {
				return err
			}

			if open {
				if err := browser.OpenURL(url); err != nil {
					a.logger.Printf("cannot open a browser: %v", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return s.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on, random if below 1000")
	cmd.Flags().BoolVar(&open, "open", false, "Open the catalog in a browser")
	cmd.Flags().StringVar(&record, "record", "", "History database to serve (default from config)")

	return cmd
}
