package commands

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/api"
	"tableflip.dev/dayring/pkg/engine"
	serverunner "tableflip.dev/dayring/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the vault crud api",
		Long: `Serve the generic read/create/update/delete endpoint over HTTP and run
the background reconciliation loop. The endpoint operates on the vault's
flat-file day documents; periodic pulls keep the local timelines current.`,
		Example: `
dayring serve
dayring serve --port 5173
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port < 0 || port > 65535 {
				return fmt.Errorf("invalid port %d", port)
			}

			_, v, r, err := loadDeps()
			if err != nil {
				return err
			}
			eng := engine.New(engine.VaultSource{V: v})
			s := serverunner.Serve{
				Addr: net.JoinHostPort(host, strconv.Itoa(port)),
				Handler: &api.Handler{
					Engine:     eng,
					Vault:      v,
					Reconciler: r,
				},
				Reconciler: r,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Interface to bind.")
	cmd.Flags().IntVar(&port, "port", 5173, "Port to listen on.")

	topLevel.AddCommand(cmd)
}
