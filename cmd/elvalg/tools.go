package main

import (
	"fmt"

	"elvalg/internal/pricezone"
	"elvalg/internal/reminder"
	"elvalg/internal/utils"

	"github.com/spf13/cobra"
)

var zoneCmd = &cobra.Command{
	Use:     "zone <postal code>",
	Short:   "Resolve a postal code to its price zone",
	Example: "  elvalg zone 0150",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postalCode, ok := pricezone.Normalize(args[0])
		if !ok {
			return fmt.Errorf("%q is not a 4 or 5 digit postal code", args[0])
		}

		zone := pricezone.Resolve(postalCode)
		if !zone.Resolved() {
			cmd.Printf("%s %s\n", postalCode, zone)
			return nil
		}
		cmd.Printf("%s %s %s\n", postalCode, zone, zone.Label())
		return nil
	},
}

var reminderCmd = &cobra.Command{
	Use:     "reminder <start date> <duration>",
	Short:   "Show the reminder and expiry date of a contract",
	Example: "  elvalg reminder 2024-03-15 12\n  elvalg reminder 15.03.2024 24",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := utils.NewDateValidator().ParseDate(args[0])
		if err != nil {
			return err
		}

		duration, err := reminder.ParseDurationCategory(args[1])
		if err != nil {
			return err
		}
		if !duration.Fixed() {
			cmd.Println("variable contracts have no reminder")
			return nil
		}

		reminderDate, err := reminder.ReminderDate(start, duration)
		if err != nil {
			return err
		}
		expiryDate, err := reminder.ExpiryDate(start, duration)
		if err != nil {
			return err
		}

		cmd.Printf("reminder %s\nexpiry   %s\n", reminderDate, expiryDate)
		return nil
	},
}
