package importer

import (
	"github.com/Norky101/G-Calendar-Automation/schedule"
	"github.com/google/uuid"
	"github.com/mattismoel/icalendar"
	"github.com/mattismoel/icalendar/types"
)

// Writes events to an iCalendar file at path.
func writeICS(path string, events []schedule.Event) error {
	ical := icalendar.New("G-Calendar-Automation", "gcalimport", path)
	for _, event := range events {
		ical.Events = append(ical.Events, icalEvent(event))
	}
	return ical.Update()
}

// Returns the iCalendar representation of an event.
func icalEvent(event schedule.Event) *types.ICalEvent {
	return &types.ICalEvent{
		UID:         uuid.NewString(),
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		StartDate:   event.Start,
		EndDate:     event.End,
	}
}
