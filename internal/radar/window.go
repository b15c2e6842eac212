// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package radar

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultWindow is the span covered when no window is configured.
const DefaultWindow = time.Hour

// isoLayout is the ISO-8601 UTC form the upstream expects for dateStart/dateEnd.
const isoLayout = "2006-01-02T15:04:05Z"

// dateRanges are the relative windows the upstream accepts. Each day and week
// span also has a "Control" twin covering the preceding period.
var dateRanges = func() map[string]bool {
	set := map[string]bool{"1h": true}
	for _, token := range []string{"1d", "2d", "7d", "14d", "28d", "12w", "24w", "52w"} {
		set[token] = true
		set[token+"Control"] = true
	}
	return set
}()

// ValidDateRange reports whether token is an upstream dateRange token such
// as "1h", "7d", "12w" or "1dControl".
func ValidDateRange(token string) bool {
	return dateRanges[token]
}

// Window selects the time span of a fetch. A window is either a relative
// dateRange token or an explicit start/end pair; the zero Window means "use
// the client default".
type Window struct {
	Range string
	Start time.Time
	End   time.Time
}

// RangeWindow returns a window expressed as a dateRange token.
func RangeWindow(token string) Window {
	return Window{Range: token}
}

// Between returns an explicit window.
func Between(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

// LastWindow returns the span of length d ending at now, in UTC.
func LastWindow(now time.Time, d time.Duration) Window {
	if d <= 0 {
		d = DefaultWindow
	}
	end := now.UTC().Truncate(time.Second)
	return Window{Start: end.Add(-d), End: end}
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.Range == "" && w.Start.IsZero() && w.End.IsZero()
}

// Label is a stable text form used for cache keys and logs.
func (w Window) Label() string {
	switch {
	case w.Range != "":
		return w.Range
	case w.IsZero():
		return "default"
	default:
		return w.Start.UTC().Format(isoLayout) + "/" + w.End.UTC().Format(isoLayout)
	}
}

// Validate rejects malformed tokens and inverted spans.
func (w Window) Validate() error {
	if w.Range != "" {
		if !w.Start.IsZero() || !w.End.IsZero() {
			return fmt.Errorf("window sets both dateRange and start/end")
		}
		if !ValidDateRange(w.Range) {
			return fmt.Errorf("invalid dateRange token %q", w.Range)
		}
		return nil
	}
	if w.Start.IsZero() != w.End.IsZero() {
		return fmt.Errorf("window needs both start and end")
	}
	if !w.End.After(w.Start) && !w.IsZero() {
		return fmt.Errorf("window end %s is not after start %s", w.End.Format(isoLayout), w.Start.Format(isoLayout))
	}
	return nil
}

// apply writes the window onto the query string.
func (w Window) apply(q url.Values) {
	if w.Range != "" {
		q.Set("dateRange", w.Range)
		return
	}
	q.Set("dateStart", w.Start.UTC().Format(isoLayout))
	q.Set("dateEnd", w.End.UTC().Format(isoLayout))
}
