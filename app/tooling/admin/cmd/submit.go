package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	submitKind    string
	submitPeriod  uint64
	submitAccount string
	submitAmount  string
	submitBlock   uint64
	submitIndex   uint
)

func init() {
	submitCmd.Flags().StringVar(&submitKind, "kind", "", "Event kind: opened, deposited or withdrawn.")
	submitCmd.Flags().Uint64Var(&submitPeriod, "period", 0, "Period id for opened events.")
	submitCmd.Flags().StringVar(&submitAccount, "account", "", "Hex account for deposited/withdrawn events.")
	submitCmd.Flags().StringVar(&submitAmount, "amount", "", "Amount in token base units.")
	submitCmd.Flags().Uint64Var(&submitBlock, "block", 0, "Block number of the event.")
	submitCmd.Flags().UintVar(&submitIndex, "index", 0, "Log index of the event.")
	submitCmd.MarkFlagRequired("kind")
	submitCmd.MarkFlagRequired("block")
	rootCmd.AddCommand(submitCmd)
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Fold a manually constructed event into the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := struct {
			Kind        string `json:"kind"`
			PeriodID    uint64 `json:"period_id"`
			Account     string `json:"account"`
			Amount      string `json:"amount"`
			BlockNumber uint64 `json:"block_number"`
			LogIndex    uint   `json:"log_index"`
		}{
			Kind:        submitKind,
			PeriodID:    submitPeriod,
			Account:     submitAccount,
			Amount:      submitAmount,
			BlockNumber: submitBlock,
			LogIndex:    submitIndex,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		return post(fmt.Sprintf("%s/v1/node/events/submit", privateURL), string(data))
	},
}
