package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(periodsCmd)
}

var periodsCmd = &cobra.Command{
	Use:   "periods [id]",
	Short: "Print the period records, or one record by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fmt.Sprintf("%s/v1/periods/list", publicURL)
		if len(args) == 1 {
			url = fmt.Sprintf("%s/%s", url, args[0])
		}

		return get(url)
	},
}
