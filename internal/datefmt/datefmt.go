// Package datefmt turns stored timestamps into the dates shown to shoppers.
package datefmt

import (
	"errors"
	"strings"
	"time"
)

const (
	// StorageLayout is what the text backends write.
	StorageLayout = "2006-01-02 15:04:05.000000"
	DisplayLayout = "02.01.2006 15:04"
	Unknown       = "дата неизвестна"

	// DefaultZone is where the shop operates.
	DefaultZone = "Europe/Moscow"
)

// layouts are tried in order; the first that parses wins.
var layouts = []string{
	StorageLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	DisplayLayout,
}

var ErrUnknownFormat = errors.New("unknown date format")

func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnknownFormat
}

// Formatter renders timestamps in the shop's time zone.
type Formatter struct {
	loc *time.Location
}

// NewFormatter displays times in loc; nil means UTC.
func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{loc: loc}
}

// Format renders a stored timestamp. Unparseable input comes back as-is and
// empty input becomes the Unknown marker.
func (f Formatter) Format(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return Unknown
	}
	t, err := Parse(raw)
	if err != nil {
		return raw
	}
	return f.Display(t)
}

func (f Formatter) Display(t time.Time) string {
	if t.IsZero() {
		return Unknown
	}
	if f.loc == nil {
		return t.UTC().Format(DisplayLayout)
	}
	return t.In(f.loc).Format(DisplayLayout)
}

// Storage renders t the way the text backends persist it.
func Storage(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}
