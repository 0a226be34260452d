package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lucerna/internal/interfaces/cli/migrate"
	"lucerna/internal/interfaces/cli/server"
)

func main() {
	root := &cobra.Command{
		Use:   "lucerna",
		Short: "Authentication and user management service",
	}

	root.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
