package schedule

import (
	"fmt"
	"time"
)

// Span is one day's open window in whole local hours, half-open:
// open at Open:00, closed again at Close:00. The zero value means
// closed all day.
type Span struct {
	Open  int
	Close int
}

// Weekly is the shop's authoritative opening schedule. Both the advisory
// client check and the enforcing submission check consume this one table;
// the hours must never be duplicated elsewhere.
type Weekly map[time.Weekday]Span

// Default is the café's pickup-order schedule.
var Default = Weekly{
	time.Monday:    {Open: 7, Close: 20},
	time.Tuesday:   {Open: 7, Close: 20},
	time.Wednesday: {Open: 7, Close: 20},
	time.Thursday:  {Open: 7, Close: 20},
	time.Friday:    {Open: 7, Close: 20},
	time.Saturday:  {Open: 8, Close: 21},
	time.Sunday:    {Open: 8, Close: 18},
}

// IsOpen reports whether the shop accepts orders at t.
func (w Weekly) IsOpen(t time.Time) bool {
	span, ok := w[t.Weekday()]
	if !ok {
		return false
	}
	hour := t.Hour()
	return hour >= span.Open && hour < span.Close
}

// Status describes the shop's state at t for display.
type Status struct {
	IsOpen    bool   `json:"is_open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Message   string `json:"message"`
}

// StatusAt builds the advisory status shown on the storefront.
func (w Weekly) StatusAt(t time.Time) Status {
	span, ok := w[t.Weekday()]
	if !ok {
		return Status{Message: "We're closed today."}
	}

	open := w.IsOpen(t)
	st := Status{
		IsOpen:    open,
		OpenTime:  fmt.Sprintf("%d:00", span.Open),
		CloseTime: fmt.Sprintf("%d:00", span.Close),
	}
	if open {
		st.Message = "We're currently open!"
	} else {
		st.Message = fmt.Sprintf("We accept online orders from %s to %s", clockLabel(span.Open), clockLabel(span.Close))
	}
	return st
}

func clockLabel(hour int) string {
	switch {
	case hour == 0:
		return "12AM"
	case hour < 12:
		return fmt.Sprintf("%dAM", hour)
	case hour == 12:
		return "12PM"
	default:
		return fmt.Sprintf("%dPM", hour-12)
	}
}
