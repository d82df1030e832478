package handler

import "time"

// SetClock pins the time used for the date hint on the booking form.
func SetClock(s *Server, now func() time.Time) {
	s.now = now
}
