package importer

import (
	"context"
	"fmt"

	"github.com/Norky101/G-Calendar-Automation/schedule"
)

// StubBackend records events instead of creating them anywhere. It backs dry
// runs and tests.
type StubBackend struct {
	Created []schedule.Event

	// Err, when set, rejects every event. FailFor rejects single events by
	// summary.
	Err     error
	FailFor map[string]error
}

func (b *StubBackend) CreateEvent(ctx context.Context, event schedule.Event) (string, error) {
	if b.Err != nil {
		return "", b.Err
	}
	if err, ok := b.FailFor[event.Summary]; ok {
		return "", err
	}
	b.Created = append(b.Created, event)
	return fmt.Sprintf("stub-%d", len(b.Created)), nil
}
