package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Norky101/G-Calendar-Automation/schedule"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Private extended property keys used to tag every inserted event, so that
// clear can tell imported events apart from personal ones.
const (
	propManagedBy   = "managedBy"
	propImportRun   = "importRun"
	managedByValue  = "gcalimport"
	defaultCalendar = "primary"
)

type GoogleCalendar struct {
	Service *calendar.Service
	ID      string

	// TimeZone is attached to event payloads when set. RecurWeekly repeats
	// every inserted event weekly for a year, as a timetable import would.
	TimeZone    string
	RecurWeekly bool

	// RunID tags all events inserted by this instance.
	RunID string
}

// Returns a GoogleCalendar for the given calendar ID, backed by an authorized
// HTTP client.
func NewGoogleCalendar(client *http.Client, calendarID string) (*GoogleCalendar, error) {
	service, err := calendar.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("could not create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = defaultCalendar
	}

	c := &GoogleCalendar{
		Service: service,
		ID:      calendarID,
		RunID:   uuid.NewString(),
	}
	return c, nil
}

// Inserts a single event into the calendar and returns its event ID.
func (c *GoogleCalendar) CreateEvent(ctx context.Context, event schedule.Event) (string, error) {
	created, err := c.Service.Events.Insert(c.ID, c.eventBody(event)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("could not insert event: %w", err)
	}
	log.Infof("Created event: %v", created.HtmlLink)
	return created.Id, nil
}

// Returns the calendars visible to the authorized account.
func (c *GoogleCalendar) ListCalendars(ctx context.Context) ([]*calendar.CalendarListEntry, error) {
	var entries []*calendar.CalendarListEntry
	pageToken := ""
	for {
		req := c.Service.CalendarList.List().Context(ctx)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		r, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("could not list calendars: %w", err)
		}
		entries = append(entries, r.Items...)

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return entries, nil
}

// Deletes previously imported events from the calendar, leaving personal
// events intact. A non-empty runID restricts deletion to the events of that
// import run. Returns the number of deleted events.
func (c *GoogleCalendar) ClearImported(ctx context.Context, runID string) (int, error) {
	filters := []string{propManagedBy + "=" + managedByValue}
	if runID != "" {
		filters = append(filters, propImportRun+"="+runID)
	}

	start := time.Now()
	deleted := 0
	pageToken := ""
	for {
		req := c.Service.Events.List(c.ID).PrivateExtendedProperty(filters...).Context(ctx)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		r, err := req.Do()
		if err != nil {
			return deleted, fmt.Errorf("could not list imported events: %w", err)
		}
		for _, item := range r.Items {
			err := c.Service.Events.Delete(c.ID, item.Id).Context(ctx).Do()
			if err != nil {
				// Events deleted through the UI stay listed as cancelled and
				// respond with 410 Gone.
				var apiErr *googleapi.Error
				if errors.As(err, &apiErr) && apiErr.Code == http.StatusGone {
					continue
				}
				return deleted, fmt.Errorf("could not delete event %v: %w", item.Id, err)
			}
			deleted++
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}
	log.Infof("Found and deleted %v events in %v", deleted, time.Since(start))
	return deleted, nil
}

// Returns the API payload for an event.
func (c *GoogleCalendar) eventBody(event schedule.Event) *calendar.Event {
	body := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start: &calendar.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: c.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: c.TimeZone,
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				propManagedBy: managedByValue,
				propImportRun: c.RunID,
			},
		},
	}
	if c.RecurWeekly {
		body.Recurrence = []string{weeklyRule(event.Start)}
	}
	return body
}

// Returns a rule repeating the event weekly for a year on the weekday of its
// start date.
func weeklyRule(start time.Time) string {
	day := strings.ToUpper(start.Weekday().String()[:2])
	return fmt.Sprintf("RRULE:FREQ=WEEKLY;COUNT=52;BYDAY=%s", day)
}
