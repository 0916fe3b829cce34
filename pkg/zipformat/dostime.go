package zipformat

import "time"

// DOSDateTime converts a local wall-clock time into the packed DOS
// date/time pair used by ZIP headers. Seconds are truncated to
// 2-second resolution, as DOS time only has 5 bits for seconds.
func DOSDateTime(t time.Time) (date uint16, timeOfDay uint16) {
	year, month, day := t.Date()
	date = uint16(year-1980)<<9 | uint16(month)<<5 | uint16(day)
	timeOfDay = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, timeOfDay
}
