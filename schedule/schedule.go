package schedule

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/exp/slices"
)

// Header is the exact column layout an import file must start with.
var Header = []string{"Subject", "Start Date", "Start Time", "End Date", "End Time", "Description", "Location"}

const (
	colSubject = iota
	colStartDate
	colStartTime
	colEndDate
	colEndTime
	colDescription
	colLocation
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Event struct {
	Summary     string    `json:"summary"`     // Title of the event (eg. "Exercise")
	Description string    `json:"description"` // Free-form notes for the event body
	Location    string    `json:"location"`    // Where the event takes place (eg. "Gym")
	Start       time.Time `json:"start"`       // Start of the event, date and time combined
	End         time.Time `json:"end"`         // End of the event, never before Start
}

// FormatError describes a single row that could not be turned into an event.
// The surrounding file is still readable; callers may skip the row and keep
// going.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Reader yields the events of an import file one row at a time, in file
// order. It reads forward only and cannot be restarted.
type Reader struct {
	csv      *csv.Reader
	location *time.Location
}

// Returns a Reader over r after validating the header row. Dates and times in
// the file are interpreted in the given location.
func NewReader(r io.Reader, location *time.Location) (*Reader, error) {
	if location == nil {
		location = time.Local
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty, expected a header row")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read header row: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("unexpected header %q, want %q", header, Header)
	}

	return &Reader{csv: cr, location: location}, nil
}

// Returns the next event in the file. A *FormatError marks a bad row that can
// be skipped; io.EOF marks the end of the file. Any other error means the
// file itself could not be read further.
func (r *Reader) Next() (*Event, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &FormatError{Line: parseErr.Line, Err: parseErr.Err}
		}
		return nil, err
	}

	line, _ := r.csv.FieldPos(0)

	start, err := r.parseDateTime(record[colStartDate], record[colStartTime])
	if err != nil {
		return nil, &FormatError{Line: line, Err: fmt.Errorf("start: %w", err)}
	}
	end, err := r.parseDateTime(record[colEndDate], record[colEndTime])
	if err != nil {
		return nil, &FormatError{Line: line, Err: fmt.Errorf("end: %w", err)}
	}
	if end.Before(start) {
		return nil, &FormatError{Line: line, Err: fmt.Errorf("end %v is before start %v", end, start)}
	}

	event := &Event{
		Summary:     record[colSubject],
		Description: record[colDescription],
		Location:    record[colLocation],
		Start:       start,
		End:         end,
	}
	return event, nil
}

// Combines a date field and a clock field into one instant in the reader's
// location.
func (r *Reader) parseDateTime(dateField, timeField string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, dateField, r.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q: %w", dateField, err)
	}
	clock, err := time.ParseInLocation(timeLayout, timeField, r.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse time %q: %w", timeField, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, r.location), nil
}
