package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect sessions",
	Long:  `Inspect suspended sessions and the history of finished ones.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List suspended sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		out, err := r.Snapshots(stores.Snapshots.List())
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var sessionDiscardCmd = &cobra.Command{
	Use:   "discard [snapshot-id]",
	Short: "Discard a suspended session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		if err := stores.Snapshots.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("Discarded snapshot %s\n", args[0])
		return nil
	},
}

var sessionHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		out, err := r.Records(stores.Records.List())
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	sessionLsCmd.Flags().StringP("output", "o", "", "Output format (table|json|yaml)")
	sessionHistoryCmd.Flags().StringP("output", "o", "", "Output format (table|json|yaml)")

	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionDiscardCmd)
	sessionCmd.AddCommand(sessionHistoryCmd)
	rootCmd.AddCommand(sessionCmd)
}
