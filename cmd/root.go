/*
Copyright © 2024 Norky101
*/
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gcalimport",
	Short: "Imports CSV event schedules into Google Calendar",
	Long: `Reads a CSV file of events and creates them in a Google Calendar through
the Calendar API, authorized with a local OAuth client secret. A .env file in
the working directory is loaded at startup, so CALENDAR_ID, TIMEZONE and
LOG_LEVEL can be kept next to the events file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// Loads the working directory .env file and applies LOG_LEVEL.
func initConfig() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	logLevel, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)
}
