package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ironsheep/shapekit/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Serve speaks JSON-RPC 2.0 (Model Context Protocol) over stdio, one message
per line. Tools mirror the analyze and generate commands and add descriptor
operations that work on bare area/perimeter pairs. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runServe(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s := server.New(configFromContext(ctx), logger)
	s.SetVersion(version)
	logger.Info("serving MCP on stdio", "version", version)

	if err := s.Serve(ctx, in, out); err != nil {
		return err
	}
	logger.Debug("stdin closed, server stopped")
	return nil
}
