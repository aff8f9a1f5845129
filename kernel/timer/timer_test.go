package timer

import "testing"

func TestTickConstructors(t *testing.T) {
	Init(10_000_000)

	if got, want := Second(1).AsUint64(), frequency; got != want {
		t.Fatalf("Second(1) = %d, want %d", got, want)
	}
	if got, want := Second(3).AsUint64(), 3*frequency; got != want {
		t.Fatalf("Second(3) = %d, want %d", got, want)
	}
	if got, want := Minute(1).AsUint64(), 60*frequency; got != want {
		t.Fatalf("Minute(1) = %d, want %d", got, want)
	}
	if got, want := Hour(1).AsUint64(), 3600*frequency; got != want {
		t.Fatalf("Hour(1) = %d, want %d", got, want)
	}
}
