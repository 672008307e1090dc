package upstream

import "time"

// sbsTimeLayout matches the SBS/BaseStation date+time field format,
// e.g. "2024/01/02 03:04:05.123456".
const sbsTimeLayout = "2006/01/02 15:04:05.000000"

// TimestampAdjuster rebases SBS source timestamps onto the bridge's
// own clock (spec §4.2), so that replayed or clock-skewed feeds still
// produce monotonically sensible AIS timestamps.
type TimestampAdjuster struct {
	start time.Time
	epoch time.Time
}

// NewTimestampAdjuster returns an adjuster anchored at start.
func NewTimestampAdjuster(start time.Time) *TimestampAdjuster {
	return &TimestampAdjuster{
		start: start,
		epoch: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Adjust parses an SBS date+time field and returns
// start + (parsed - epoch). If the field doesn't parse, it falls back
// to start (spec §4.2: "a line whose timestamp cannot be parsed is
// rebased onto the start time with no offset").
func (a *TimestampAdjuster) Adjust(dateTime string) time.Time {
	parsed, err := time.Parse(sbsTimeLayout, dateTime)
	if err != nil {
		return a.start
	}
	return a.start.Add(parsed.Sub(a.epoch))
}
