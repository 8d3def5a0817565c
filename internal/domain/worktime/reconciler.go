package worktime

import (
	"sort"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/attendance"
)

// Reconcile rebuilds work sessions from a user's events. The input may be in any order.
//
// Events are walked chronologically with one tracked open session. A clock-out
// closes the tracked session; a clock-out with nothing open is discarded and
// reported as an anomaly. A clock-in while a session is open abandons the earlier
// one, which policy either keeps as open or drops.
func Reconcile(events []attendance.TimeEvent, policy Policy) Reconciliation {
	ordered := make([]attendance.TimeEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Kind != b.Kind {
			return a.Kind == attendance.KindClockIn
		}
		return a.ID < b.ID
	})

	var r Reconciliation
	open := false // the tracked open session, when present, is always the last one

	for _, ev := range ordered {
		switch ev.Kind {
		case attendance.KindClockIn:
			if open {
				abandoned := r.Sessions[len(r.Sessions)-1]
				r.Anomalies = append(r.Anomalies, Anomaly{
					Kind:    AnomalyAbandonedSession,
					EventID: abandoned.StartEventID,
					At:      abandoned.Start,
				})
				if policy == PolicyStrict {
					r.Sessions = r.Sessions[:len(r.Sessions)-1]
				}
			}
			r.Sessions = append(r.Sessions, WorkSession{
				StartEventID: ev.ID,
				Start:        ev.Timestamp,
			})
			open = true

		case attendance.KindClockOut:
			if !open {
				r.Anomalies = append(r.Anomalies, Anomaly{
					Kind:    AnomalyOrphanClockOut,
					EventID: ev.ID,
					At:      ev.Timestamp,
				})
				continue
			}
			s := &r.Sessions[len(r.Sessions)-1]
			end := ev.Timestamp
			endID := ev.ID
			s.End = &end
			s.EndEventID = &endID
			s.Closed = true
			if d := end.Sub(s.Start); d > 0 {
				s.Duration = d
			}
			open = false
		}
	}

	if open {
		current := r.Sessions[len(r.Sessions)-1]
		r.Current = &current
	}
	return r
}
