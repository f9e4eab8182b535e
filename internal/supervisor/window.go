package supervisor

import "time"

// Window is a half-open local-hour range [From, To). A window of [9, 24)
// admits hours 9 through 23.
type Window struct {
	From int
	To   int
}

func (w Window) Contains(hour int) bool {
	return hour >= w.From && hour < w.To
}

// LocalHour maps a wall-clock instant to the hour of day in a timezone
// expressed as a whole-hour offset from UTC. Offsets wrap modulo 24 in both
// directions.
func LocalHour(now time.Time, utcOffsetHours int) int {
	h := (now.UTC().Hour() + utcOffsetHours) % 24
	if h < 0 {
		h += 24
	}
	return h
}
