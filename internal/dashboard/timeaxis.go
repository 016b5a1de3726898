package dashboard

import "time"

// TimeAxis produces the shared x-axis labels for a sample's time slots.
// The updater does not compute the axis itself; it is injected.
type TimeAxis interface {
	Labels(end time.Time, n int) []string
}

// HourlyAxis renders hourly slot labels with the final slot anchored at
// the sample timestamp's hour, in the configured location.
type HourlyAxis struct {
	Location *time.Location
}

// Labels returns n labels, oldest first.
func (a HourlyAxis) Labels(end time.Time, n int) []string {
	if n <= 0 {
		return nil
	}

	loc := a.Location
	if loc == nil {
		loc = time.UTC
	}

	t := end.In(loc)
	anchor := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)

	labels := make([]string, n)
	for i := range labels {
		slot := anchor.Add(-time.Duration(n-1-i) * time.Hour)
		labels[i] = slot.In(loc).Format("2006-01-02 15:04")
	}
	return labels
}
