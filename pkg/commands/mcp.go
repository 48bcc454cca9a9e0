package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayring/pkg/engine"
	"tableflip.dev/dayring/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport   string
		httpHost    string
		httpPort    int
		httpPath    string
		httpTLSCert string
		httpTLSKey  string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the day clock's read/create/update/
delete tools to an external agent runtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, v, _, err := loadDeps()
			if err != nil {
				return err
			}
			eng := engine.New(engine.VaultSource{V: v})

			path := strings.TrimSpace(httpPath)
			if path == "" {
				path = "/mcp"
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			runner := mcp.Runner{
				Engine:           eng,
				Name:             "dayring",
				Version:          "dev",
				HTTPEndpointPath: path,
				HTTPServerCert:   strings.TrimSpace(httpTLSCert),
				HTTPServerKey:    strings.TrimSpace(httpTLSKey),
			}

			switch strings.ToLower(strings.TrimSpace(transport)) {
			case "", string(mcp.TransportHTTP):
				host := strings.TrimSpace(httpHost)
				if host == "" {
					host = "127.0.0.1"
				}
				if httpPort < 0 || httpPort > 65535 {
					return fmt.Errorf("invalid http-port %d", httpPort)
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = net.JoinHostPort(host, strconv.Itoa(httpPort))
			case string(mcp.TransportStdio):
				runner.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unknown transport %q", transport)
			}

			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "http", `Transport to serve MCP over: "http" or "stdio".`)
	cmd.Flags().StringVar(&httpHost, "http-host", "127.0.0.1", "Host interface for the HTTP transport.")
	cmd.Flags().IntVar(&httpPort, "http-port", 8080, "Port for the HTTP transport.")
	cmd.Flags().StringVar(&httpPath, "http-path", "/mcp", "Endpoint path for the HTTP transport.")
	cmd.Flags().StringVar(&httpTLSCert, "http-tls-cert", "", "TLS certificate file for the HTTP transport.")
	cmd.Flags().StringVar(&httpTLSKey, "http-tls-key", "", "TLS key file for the HTTP transport.")

	topLevel.AddCommand(cmd)
}
