package tracker

import "testing"

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func f64Ptr(f float64) *float64  { return &f }

func completeAircraft() Aircraft {
	return Aircraft{
		ICAO:      "ABCDEF",
		Callsign:  strPtr("UAL123"),
		Altitude:  intPtr(35000),
		Latitude:  f64Ptr(37.5),
		Longitude: f64Ptr(-122.4),
		Heading:   f64Ptr(270),
		Speed:     f64Ptr(450),
	}
}

func TestCompleteAllFieldsPresent(t *testing.T) {
	if !completeAircraft().Complete() {
		t.Fatal("expected fully populated aircraft to be complete")
	}
}

func TestCompleteRejectsMissingField(t *testing.T) {
	tests := map[string]func(*Aircraft){
		"callsign": func(a *Aircraft) { a.Callsign = nil },
		"altitude": func(a *Aircraft) { a.Altitude = nil },
		"latitude": func(a *Aircraft) { a.Latitude = nil },
		"heading":  func(a *Aircraft) { a.Heading = nil },
		"speed":    func(a *Aircraft) { a.Speed = nil },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			a := completeAircraft()
			mutate(&a)
			if a.Complete() {
				t.Errorf("expected incomplete with %s missing", name)
			}
		})
	}
}

func TestCompleteRejectsOutOfRange(t *testing.T) {
	tests := map[string]func(*Aircraft){
		"latitude too high":  func(a *Aircraft) { a.Latitude = f64Ptr(91) },
		"latitude too low":   func(a *Aircraft) { a.Latitude = f64Ptr(-91) },
		"longitude too high": func(a *Aircraft) { a.Longitude = f64Ptr(181) },
		"heading negative":   func(a *Aircraft) { a.Heading = f64Ptr(-1) },
		"heading at 360":     func(a *Aircraft) { a.Heading = f64Ptr(360) },
		"negative speed":     func(a *Aircraft) { a.Speed = f64Ptr(-1) },
		"negative altitude":  func(a *Aircraft) { a.Altitude = intPtr(-1) },
		"short icao":         func(a *Aircraft) { a.ICAO = "AB" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			a := completeAircraft()
			mutate(&a)
			if a.Complete() {
				t.Errorf("expected incomplete: %s", name)
			}
		})
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	a := completeAircraft()
	cp := a.clone()

	*cp.Altitude = 1000
	if *a.Altitude == 1000 {
		t.Fatal("mutating clone's pointee mutated the original")
	}
}
