package aisnmea

import "fmt"

// checksum returns the NMEA 0183 checksum: the XOR of every byte
// between the leading '!' and the trailing '*', formatted as two
// uppercase hex digits.
func checksum(sentence string) string {
	var c byte
	for i := 0; i < len(sentence); i++ {
		c ^= sentence[i]
	}
	return fmt.Sprintf("%02X", c)
}
