package aisnmea

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/unklstewy/adsb2ais/pkg/tracker"
)

// ErrNotHexICAO is returned when an aircraft's ICAO address isn't a
// 24-bit hex string, so it can't be mapped onto an AIS MMSI field
// (spec §7).
var ErrNotHexICAO = errors.New("aisnmea: ICAO address is not valid hex")

const (
	msgType9     = 9
	altitudeMax  = 4095
	sogMax       = 1023
	cogModulus   = 4096
	lonLatScale  = 600000
	lonBits      = 28
	latBits      = 27
)

// Encode renders a complete Aircraft record as an AIS Type 9 AIVDM
// sentence (spec §4.4). The caller is responsible for only calling
// Encode on records that satisfy Aircraft.Complete.
func Encode(a tracker.Aircraft) (string, error) {
	mmsi, err := icaoToMMSI(a.ICAO)
	if err != nil {
		return "", err
	}

	w := &bitWriter{}
	w.writeUint(msgType9, 6)            // message type
	w.writeUint(0, 2)                   // repeat indicator
	w.writeUint(mmsi, 30)                // MMSI (ICAO-derived)
	w.writeUint(encodeAltitude(*a.Altitude), 12)
	w.writeUint(encodeSOG(*a.Speed), 10)
	w.writeUint(1, 1)                   // position accuracy
	w.writeInt(encodeLongitude(*a.Longitude), lonBits)
	w.writeInt(encodeLatitude(*a.Latitude), latBits)
	w.writeUint(encodeCOG(*a.Heading), 12)
	w.writeUint(uint64(a.Timestamp.Second()), 6)
	w.writeUint(0, 8) // regional reserved
	w.writeUint(0, 1) // DTE
	w.writeUint(0, 3) // spare
	w.writeUint(0, 1) // assigned-mode flag
	w.writeUint(0, 1) // RAIM flag
	w.writeUint(0, 20) // radio status

	payload := sixbitEncode(w.bits())
	sentence := fmt.Sprintf("!AIVDM,1,1,,A,%s,0", payload)
	return sentence + "*" + checksum(sentence[1:]), nil
}

func icaoToMMSI(icao string) (uint64, error) {
	v, err := strconv.ParseUint(icao, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotHexICAO, icao)
	}
	return v, nil
}

// encodeAltitude converts feet (the SBS source unit) to whole meters
// and saturates to the 12-bit field's range.
func encodeAltitude(feet int) uint64 {
	meters := int64(math.Round(float64(feet) * 0.3048))
	if meters < 0 {
		return 0
	}
	if meters > altitudeMax {
		return altitudeMax
	}
	return uint64(meters)
}

// encodeSOG saturates speed-over-ground, in knots, to the 10-bit field.
func encodeSOG(knots float64) uint64 {
	v := int64(math.Floor(knots))
	if v < 0 {
		return 0
	}
	if v > sogMax {
		return sogMax
	}
	return uint64(v)
}

// encodeCOG converts heading in degrees to AIS course-over-ground
// tenths of a degree, wrapping into [0, 4096).
func encodeCOG(headingDeg float64) uint64 {
	v := int64(math.Round(headingDeg*10)) % cogModulus
	if v < 0 {
		v += cogModulus
	}
	return uint64(v)
}

func encodeLongitude(deg float64) int64 {
	return int64(math.Round(deg * lonLatScale))
}

func encodeLatitude(deg float64) int64 {
	return int64(math.Round(deg * lonLatScale))
}
