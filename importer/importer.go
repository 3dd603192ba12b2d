package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Norky101/G-Calendar-Automation/schedule"
	log "github.com/sirupsen/logrus"
)

// Backend creates calendar events somewhere. Implemented by
// googlecalendar.GoogleCalendar; StubBackend stands in for dry runs and
// tests.
type Backend interface {
	CreateEvent(ctx context.Context, event schedule.Event) (string, error)
}

// RemoteError describes an event the backend rejected. The rest of the run
// is unaffected.
type RemoteError struct {
	Summary string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("event %q: %v", e.Summary, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Summary accounts for a finished run.
type Summary struct {
	Created int
	Skipped int // rows dropped because they could not be parsed
	Failed  int // events the backend rejected
	Elapsed time.Duration
}

// Returns whether every row of the run became an event.
func (s *Summary) Ok() bool {
	return s.Skipped == 0 && s.Failed == 0
}

type Importer struct {
	Backend Backend

	// ICSPath, when set, additionally writes every created event to an
	// iCalendar file as a local backup of the import.
	ICSPath string
}

// Runs the import: reads rows until the file is exhausted and creates one
// event per well formed row, in file order. Bad rows and rejected events are
// logged and counted, and the run carries on. The returned error is only set
// when the run as a whole could not continue.
func (i *Importer) Run(ctx context.Context, r *schedule.Reader) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}
	var backup []schedule.Event

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		event, err := r.Next()
		if err == io.EOF {
			break
		}
		var formatErr *schedule.FormatError
		if errors.As(err, &formatErr) {
			log.Errorf("Skipping bad row: %v", formatErr)
			summary.Skipped++
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("could not read events file: %w", err)
		}

		id, err := i.Backend.CreateEvent(ctx, *event)
		if err != nil {
			remoteErr := &RemoteError{Summary: event.Summary, Err: err}
			log.Errorf("Could not create event: %v", remoteErr)
			summary.Failed++
			continue
		}
		log.Debugf("Created %q as %v", event.Summary, id)
		summary.Created++

		if i.ICSPath != "" {
			backup = append(backup, *event)
		}
	}

	if i.ICSPath != "" {
		if err := writeICS(i.ICSPath, backup); err != nil {
			return summary, fmt.Errorf("could not write backup file: %w", err)
		}
		log.Infof("Wrote %v events to %v", len(backup), i.ICSPath)
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}
