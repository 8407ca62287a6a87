// Command sysdbctl is a thin client for a running sysdbd, speaking the
// §4.5.1 length-prefixed framing protocol directly over its Unix socket.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gavioto/sysdb/internal/frontend"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sysdbctl",
		Short: "Query a running sysdbd over its socket",
	}
	rootCmd.PersistentFlags().String("socket", "/var/run/sysdbd.sock", "path to the daemon's Unix socket")

	rootCmd.AddCommand(newPingCmd(), newListCmd(), newQueryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dialFromFlags(cmd *cobra.Command) (*frontend.Client, error) {
	path, _ := cmd.Flags().GetString("socket")
	return frontend.Dial(path)
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the daemon is alive",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dialFromFlags(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Ping(); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every host in the store as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dialFromFlags(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			_, body, err := c.List()
			if err != nil {
				return err
			}
			fmt.Println(string(body))
			return nil
		},
	}
}

// newQueryCmd is a placeholder for the store's matcher-expression query
// language, out of scope per the original spec's Non-goals; it exists so
// the command tree matches the client's documented subcommand set and
// gives a clear error rather than cobra's generic "unknown command".
func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <expr>",
		Short: "Query the store with a matcher expression (not yet supported)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("sysdbctl: query expressions are not supported over the wire protocol yet; use 'list'")
		},
	}
}
