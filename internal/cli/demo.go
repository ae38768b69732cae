package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TableBooking/internal/demo"
)

func newDemoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Start the demo backend with the static landing page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Demo.Port),
				Handler:      demo.NewServer(cfg.Demo.Message, log).Routes(),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			}
			return serveUntilSignal(srv, time.Duration(cfg.Server.ShutdownTimeout)*time.Second, log)
		},
	}
}
