/*
Copyright © 2024 Norky101
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Norky101/G-Calendar-Automation/googlecalendar"
	"github.com/Norky101/G-Calendar-Automation/importer"
	"github.com/Norky101/G-Calendar-Automation/schedule"
	"github.com/Norky101/G-Calendar-Automation/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a CSV file of events into a Google Calendar",
	Long: `Imports a CSV file of events into a Google Calendar, one event per row.
The file must start with the header

  Subject,Start Date,Start Time,End Date,End Time,Description,Location

with dates written as YYYY-MM-DD and times as HH:MM. Rows that cannot be
parsed and events that Google Calendar rejects are reported and skipped; the
rest of the file is still imported. The command exits non-zero when any row
was lost that way.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		calendarID, _ := cmd.Flags().GetString("calendarID")
		credentialsPath, _ := cmd.Flags().GetString("credentials")
		tokenPath, _ := cmd.Flags().GetString("token")
		timezone, _ := cmd.Flags().GetString("timezone")
		weekly, _ := cmd.Flags().GetBool("weekly")
		icsPath, _ := cmd.Flags().GetString("ics")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if calendarID == "" {
			calendarID = os.Getenv("CALENDAR_ID")
		}
		if timezone == "" {
			timezone = os.Getenv("TIMEZONE")
		}
		if weekly && timezone == "" {
			log.Fatalf("Weekly events need an explicit time zone, set --timezone or TIMEZONE\n")
		}

		location := time.Local
		if timezone != "" {
			var err error
			location, err = time.LoadLocation(timezone)
			if err != nil {
				log.Fatalf("Could not load time zone %q: %v\n", timezone, err)
			}
		}

		fmt.Println("Attempting to import events into Google Calendar...")

		var backend importer.Backend
		if dryRun {
			fmt.Println("Dry run - no events will be created")
			backend = &importer.StubBackend{}
		} else {
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
			c.TimeZone = timezone
			c.RecurWeekly = weekly
			log.Debugf("Import run %v targets calendar %v", c.RunID, c.ID)
			backend = c
		}

		f, err := os.Open(file)
		if err != nil {
			log.Fatalf("Could not open events file: %v\n", err)
		}
		defer f.Close()

		lines, err := util.GetLineCount(f)
		if err != nil {
			log.Fatalf("Could not read events file: %v\n", err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			log.Fatalf("Could not rewind events file: %v\n", err)
		}
		log.Infof("Read %v lines from %v", lines, file)

		reader, err := schedule.NewReader(f, location)
		if err != nil {
			log.Fatalf("Could not read events file: %v\n", err)
		}

		imp := &importer.Importer{Backend: backend, ICSPath: icsPath}
		summary, err := imp.Run(cmd.Context(), reader)
		if err != nil {
			log.Fatalf("Could not finish the import: %v\n", err)
		}
		log.Debugf("Run summary: %v", util.PrettyPrint(summary))

		fmt.Printf(`
RESULTS ==============================
CREATED %v events in Google Calendar
SKIPPED %v rows that could not be parsed
FAILED  %v events rejected by Google Calendar

Execution took %v
======================================
`, summary.Created, summary.Skipped, summary.Failed, summary.Elapsed)

		if !summary.Ok() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("file", "f", "calendar_events.csv", "The CSV file to import")
	importCmd.Flags().StringP("calendarID", "c", "", "Google Calendar calendar ID (defaults to $CALENDAR_ID, then primary)")
	importCmd.Flags().String("credentials", "credentials.json", "The path to an OAuth client secret file")
	importCmd.Flags().StringP("token", "t", "token.json", "The path to a Google OAuth token file")
	importCmd.Flags().StringP("timezone", "z", "", "IANA time zone the CSV times are written in (defaults to $TIMEZONE, then local)")
	importCmd.Flags().BoolP("weekly", "w", false, "Repeat every imported event weekly for a year")
	importCmd.Flags().String("ics", "", "Also write the imported events to an iCalendar file at this path")
	importCmd.Flags().Bool("dry-run", false, "Parse and report without creating any events")
}
