package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resyncCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the indexing status of the node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return get(fmt.Sprintf("%s/v1/node/status", privateURL))
	},
}

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Wipe the period index and re-read the chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return post(fmt.Sprintf("%s/v1/node/resync", privateURL), "{}")
	},
}
