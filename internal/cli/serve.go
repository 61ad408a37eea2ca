package cli

import (
	"github.com/spf13/cobra"

	"github.com/planstack/floorplan/internal/api"
)

// serveCommand creates the "serve" command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		dataDir   string
		mongoURI  string
		redisAddr string
		rulesPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout catalog and planning API over HTTP",
		Long: `Serve the layout catalog and planning API over HTTP.

Configuration comes from flags, falling back to FLOORPLAN_* environment
variables (a .env file in the working directory is honored). Without
MongoDB or Redis configured the server runs self-contained on local
files, which is fine for a single instance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := api.ConfigFromEnv()
			if addr != "" {
				cfg.Addr = addr
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if mongoURI != "" {
				cfg.MongoURI = mongoURI
			}
			if redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}
			if rulesPath != "" {
				cfg.RulesPath = rulesPath
			}

			srv, err := api.New(cmd.Context(), cfg, c.Logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080 or FLOORPLAN_ADDR)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "layout directory for the file store")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string (enables the mongo store)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address (enables the redis cache)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "ruleset TOML file")

	return cmd
}
