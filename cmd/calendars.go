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
	"golang.org/x/exp/slices"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// calendarsCmd represents the calendars command
var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "Lists the calendars of the authorized account",
	Long: `Lists the calendars the authorized Google account can see, with their IDs
and access roles. Use the ID of a writable calendar as the --calendarID of
the import command.`,
	Run: func(cmd *cobra.Command, args []string) {
		credentialsPath, err := cmd.Flags().GetString("credentials")
		if err != nil {
			log.Fatalf("Could not get credentials path: %v\n", err)
		}
		tokenPath, err := cmd.Flags().GetString("token")
		if err != nil {
			log.Fatalf("Could not get token: %v\n", err)
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

		c, err := googlecalendar.NewGoogleCalendar(client, "primary")
		if err != nil {
			log.Fatalf("Could not create Google Calendar instance: %v\n", err)
		}

		entries, err := c.ListCalendars(cmd.Context())
		if err != nil {
			log.Fatalf("Could not list calendars: %v\n", err)
		}

		slices.SortFunc(entries, func(a, b *calendar.CalendarListEntry) int {
			return strings.Compare(a.Summary, b.Summary)
		})
		for _, entry := range entries {
			fmt.Printf("%v\t%v\t(%v)\n", entry.Summary, entry.Id, entry.AccessRole)
		}
	},
}

func init() {
	rootCmd.AddCommand(calendarsCmd)

	calendarsCmd.Flags().String("credentials", "credentials.json", "The path to an OAuth client secret file")
	calendarsCmd.Flags().StringP("token", "t", "token.json", "The OAuth token file for Google Calendar")

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// calendarsCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// calendarsCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
