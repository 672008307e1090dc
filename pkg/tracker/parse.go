package tracker

import (
	"errors"
	"strconv"
	"strings"
)

// errMalformed is returned for any SBS line that cannot be parsed far
// enough to yield a subtype and ICAO (spec §4.3: malformed lines are
// dropped, not fatal).
var errMalformed = errors.New("tracker: malformed SBS line")

// SBS/BaseStation field indices (spec §4.3), zero-based after
// splitting on commas.
const (
	fieldKind      = 0
	fieldSubtype   = 1
	fieldICAO      = 4
	fieldDate      = 6
	fieldTime      = 7
	fieldCallsign  = 10
	fieldAltitude  = 11
	fieldSpeed     = 12
	fieldHeading   = 13
	fieldLatitude  = 14
	fieldLongitude = 15
	minFields      = 22
)

// parseSBSLine splits one MSG line into its constituent fields.
// Fields absent from the line (empty string) come back nil; a line
// that isn't a MSG record, or has too few fields, or whose subtype or
// ICAO can't be parsed, is rejected with errMalformed.
func parseSBSLine(line string) (parsedLine, error) {
	fields := strings.Split(line, ",")
	if len(fields) < minFields {
		return parsedLine{}, errMalformed
	}
	if fields[fieldKind] != "MSG" {
		return parsedLine{}, errMalformed
	}

	subtype, err := strconv.Atoi(strings.TrimSpace(fields[fieldSubtype]))
	if err != nil {
		return parsedLine{}, errMalformed
	}

	icao := strings.TrimSpace(fields[fieldICAO])
	if icao == "" {
		return parsedLine{}, errMalformed
	}

	p := parsedLine{
		subtype:  subtype,
		icao:     strings.ToUpper(icao),
		dateTime: strings.TrimSpace(fields[fieldDate]) + " " + strings.TrimSpace(fields[fieldTime]),
	}

	if v := strings.TrimSpace(fields[fieldCallsign]); v != "" {
		p.callsign = &v
	}
	if v, present, err := parseInt(fields[fieldAltitude]); err != nil {
		return parsedLine{}, errMalformed
	} else if present {
		p.altitude = &v
	}
	if v, present, err := parseFloat(fields[fieldSpeed]); err != nil {
		return parsedLine{}, errMalformed
	} else if present {
		p.speed = &v
	}
	if v, present, err := parseFloat(fields[fieldHeading]); err != nil {
		return parsedLine{}, errMalformed
	} else if present {
		p.heading = &v
	}
	if v, present, err := parseFloat(fields[fieldLatitude]); err != nil {
		return parsedLine{}, errMalformed
	} else if present {
		p.latitude = &v
	}
	if v, present, err := parseFloat(fields[fieldLongitude]); err != nil {
		return parsedLine{}, errMalformed
	} else if present {
		p.longitude = &v
	}

	return p, nil
}

// parseInt parses a numeric field that may legitimately be absent. An
// empty field is reported as present=false with no error; a non-empty
// field that fails to parse is an error, not an absence — spec §4.3
// requires the whole line be discarded in that case, not just the
// field.
func parseInt(s string) (v int, present bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func parseFloat(s string) (v float64, present bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
