/*
Copyright © 2024 Norky101
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Norky101/G-Calendar-Automation/googlecalendar"
	"github.com/Norky101/G-Calendar-Automation/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clears imported events from the users Google Calendar",
	Long: `Clears previously imported events from the users Google Calendar.
	When used, only events created by this tool are targeted, therefore leaving any personal events intact.`,
	Run: func(cmd *cobra.Command, args []string) {
		calendarID, err := cmd.Flags().GetString("calendarID")
		if err != nil {
			log.Fatalf("Could not get calendar ID: %v\n", err)
		}
		tokenPath, err := cmd.Flags().GetString("token")
		if err != nil {
			log.Fatalf("Could not get token: %v\n", err)
		}
		credentialsPath, err := cmd.Flags().GetString("credentials")
		if err != nil {
			log.Fatalf("Could not get credentials path: %v\n", err)
		}
		runID, err := cmd.Flags().GetString("run")
		if err != nil {
			log.Fatalf("Could not get run ID: %v\n", err)
		}

		if calendarID == "" {
			calendarID = os.Getenv("CALENDAR_ID")
		}

		// Reads the credentials file and creates a config from it - this is used to create the client
		bytes, err := os.ReadFile(credentialsPath)
		if err != nil {
			log.Fatalf("Could not read contents of %v: %v\n", credentialsPath, err)
		}

		config, err := google.ConfigFromJSON(bytes, calendar.CalendarEventsScope, calendar.CalendarReadonlyScope)
		if err != nil {
			log.Fatalf("Could not create config from %v: %v\n", credentialsPath, err)
		}

		if !strings.HasSuffix(tokenPath, ".json") {
			tokenPath += ".json"
		}

		client, err := util.GetClient(config, tokenPath)
		if err != nil {
			log.Fatalf("Could not get Google Calendar client: %v\n", err)
		}

		c, err := googlecalendar.NewGoogleCalendar(client, calendarID)
		if err != nil {
			log.Fatalf("Could not create Google Calendar instance: %v\n", err)
		}

		deleted, err := c.ClearImported(cmd.Context(), runID)
		if err != nil {
			log.Fatalf("Could not clear Google Calendar: %v\n", err)
		}
		fmt.Printf("Deleted %v imported events from Google Calendar\n", deleted)
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().StringP("calendarID", "c", "", "The Google Calendar ID (defaults to $CALENDAR_ID, then primary)")
	clearCmd.Flags().String("credentials", "credentials.json", "The path to an OAuth client secret file")
	clearCmd.Flags().StringP("token", "t", "token.json", "The OAuth token file for Google Calendar")
	clearCmd.Flags().String("run", "", "Only clear the events of one import run")

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// clearCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// clearCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
