package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/myhead2001/Pornhwa/internal/server"
)

// newServeCmd starts the HTTP API for UI clients.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.ListenAddr
			}
			handler := server.NewRouter(server.Deps{
				Store:     app.Store,
				Folders:   app.Folders,
				Mirror:    app.Mirror,
				Backup:    app.Backup,
				Catalog:   app.Catalog,
				Assistant: app.Assistant,
			})
			fmt.Printf("Listening on http://%s\n", addr)
			return http.ListenAndServe(addr, handler)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
