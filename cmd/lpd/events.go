package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eventsLimitFlag int

var eventsCmd = &cobra.Command{
	Use:   "events <slug>",
	Short: "List recorded events for a link, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := apiClient.ListEvents(cmd.Context(), args[0], eventsLimitFlag)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(events)
			return nil
		}
		if len(events) == 0 {
			fmt.Println("no events")
			return nil
		}
		printEventTable(events)
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVar(&eventsLimitFlag, "limit", 50, "maximum events to fetch (server caps at 1000)")
}
