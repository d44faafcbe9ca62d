package carteira

import "time"

// ts parses a test timestamp, either "2006-01-02" or "2006-01-02 15:04:05".
func ts(s string) time.Time {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return t
}
