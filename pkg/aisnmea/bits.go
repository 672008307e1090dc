// Package aisnmea encodes complete aircraft records as AIS NMEA Type 9
// ("Standard SAR Aircraft Position Report") sentences (spec §4.4).
package aisnmea

import "strings"

// bitWriter accumulates a binary payload MSB-first, one field at a
// time, matching the AIVDM payload-armouring process (ITU-R M.1371
// Annex 2).
type bitWriter struct {
	b strings.Builder
}

// writeUint appends the low `width` bits of v, MSB first.
func (w *bitWriter) writeUint(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			w.b.WriteByte('1')
		} else {
			w.b.WriteByte('0')
		}
	}
}

// writeInt appends v as a two's-complement signed field of the given
// width: v mod 2^width, matching the ITU-R M.1371 signed-field
// convention.
func (w *bitWriter) writeInt(v int64, width int) {
	mask := uint64(1)<<uint(width) - 1
	w.writeUint(uint64(v)&mask, width)
}

// bits returns the accumulated bit string ('0'/'1' characters).
func (w *bitWriter) bits() string {
	return w.b.String()
}
