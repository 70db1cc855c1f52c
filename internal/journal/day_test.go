package journal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayOf_UsesLocalCalendar(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	la := time.FixedZone("PDT", -7*3600)

	// 2024-03-10 08:00 in Tokyo is 2024-03-09 23:00 UTC.
	morning := time.Date(2024, 3, 10, 8, 0, 0, 0, tokyo)
	// 2024-03-10 20:00 in LA is 2024-03-11 03:00 UTC.
	evening := time.Date(2024, 3, 10, 20, 0, 0, 0, la)

	if morning.UTC().Day() == evening.UTC().Day() {
		t.Fatal("fixture: UTC days should differ")
	}
	if DayOf(morning) != DayOf(evening) {
		t.Errorf("DayOf(%v) = %v, DayOf(%v) = %v, want same day", morning, DayOf(morning), evening, DayOf(evening))
	}
}

func TestDay_Arithmetic(t *testing.T) {
	d := Day{2024, time.February, 28}

	if got := d.AddDays(1); got != (Day{2024, time.February, 29}) {
		t.Errorf("AddDays(1) = %v", got)
	}
	if got := d.AddDays(2); got != (Day{2024, time.March, 1}) {
		t.Errorf("AddDays(2) = %v", got)
	}
	if got := (Day{2025, time.January, 1}).AddDays(-1); got != (Day{2024, time.December, 31}) {
		t.Errorf("AddDays(-1) = %v", got)
	}
	if got := (Day{2024, time.March, 1}).Sub(d); got != 2 {
		t.Errorf("Sub = %d, want 2", got)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Error("Before is inconsistent")
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-07-04")
	if err != nil {
		t.Fatalf("ParseDay() error = %v", err)
	}
	if d != (Day{2024, time.July, 4}) {
		t.Errorf("ParseDay() = %v", d)
	}
	if d.String() != "2024-07-04" {
		t.Errorf("String() = %q", d.String())
	}

	for _, bad := range []string{"", "2024-7-4", "2024-13-01", "04/07/2024"} {
		if _, err := ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q) expected error", bad)
		}
	}
}

func TestDay_JSONAndSQL(t *testing.T) {
	d := Day{2023, time.November, 5}

	b, err := json.Marshal(struct {
		D Day `json:"d"`
	}{d})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"d":"2023-11-05"}` {
		t.Errorf("json = %s", b)
	}

	var back struct {
		D Day `json:"d"`
	}
	if err := json.Unmarshal(b, &back); err != nil || back.D != d {
		t.Errorf("Unmarshal = %v, %v", back.D, err)
	}

	v, _ := d.Value()
	var scanned Day
	if err := scanned.Scan(v); err != nil || scanned != d {
		t.Errorf("Scan(Value()) = %v, %v", scanned, err)
	}
	if err := scanned.Scan([]byte("2020-01-02")); err != nil || scanned != (Day{2020, time.January, 2}) {
		t.Errorf("Scan([]byte) = %v, %v", scanned, err)
	}
	if err := scanned.Scan(nil); err == nil {
		t.Error("Scan(nil) expected error")
	}
}
