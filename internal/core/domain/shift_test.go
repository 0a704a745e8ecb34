package domain

import "testing"

func TestParseShiftStatus(t *testing.T) {
	cases := map[string]ShiftStatus{
		"pendiente": ShiftPending,
		"Aceptado":  ShiftAccepted,
		"aceptada":  ShiftAccepted,
		"accepted":  ShiftAccepted,
		"cancelada": ShiftCancelled,
		"canceled":  ShiftCancelled,
		"":          ShiftPending,
		"whatever":  ShiftPending,
	}
	for in, want := range cases {
		if got := ParseShiftStatus(in); got != want {
			t.Errorf("ParseShiftStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLookupShiftStatus(t *testing.T) {
	for in, want := range map[string]ShiftStatus{"pending": ShiftPending, "Pendiente": ShiftPending, "aceptada": ShiftAccepted, "cancelled": ShiftCancelled} {
		if got, ok := LookupShiftStatus(in); !ok || got != want {
			t.Errorf("LookupShiftStatus(%q) = %s, %v; want %s", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "all", "bogus"} {
		if _, ok := LookupShiftStatus(in); ok {
			t.Errorf("LookupShiftStatus(%q) should not match", in)
		}
	}
}

func TestShift_StartsAt(t *testing.T) {
	s := Shift{Date: "2026-05-04", StartTime: "09:30"}
	if got := s.StartsAt(); got.Hour() != 9 || got.Minute() != 30 || got.Day() != 4 {
		t.Fatalf("unexpected start: %v", got)
	}
	if !(Shift{Date: "mañana", StartTime: "09:30"}).StartsAt().IsZero() {
		t.Fatal("malformed date should give the zero time")
	}
}

func TestShiftStatus_Transitions(t *testing.T) {
	if !ShiftPending.CanTransitionTo(ShiftAccepted) {
		t.Fatal("pending -> accepted should be allowed")
	}
	if ShiftPending.CanTransitionTo(ShiftPending) {
		t.Fatal("same-status transition should be rejected")
	}
	if ShiftCancelled.CanTransitionTo(ShiftAccepted) {
		t.Fatal("cancelled -> accepted should be rejected")
	}
	if ShiftStatus("archived").Valid() {
		t.Fatal("unknown status reported valid")
	}
}

func TestValidTimeRange(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"09:00", "10:30", true},
		{"10:00", "10:00", false},
		{"11:00", "10:00", false},
		{"9", "10:00", false},
		{"09:00", "", false},
	}
	for _, c := range cases {
		if got := ValidTimeRange(c.start, c.end); got != c.want {
			t.Errorf("ValidTimeRange(%q, %q) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestValidDNI(t *testing.T) {
	for _, ok := range []string{"1234567", "12345678"} {
		if !ValidDNI(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"123456", "123456789", "12.345.678", "abcdefgh", ""} {
		if ValidDNI(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestShift_Involves(t *testing.T) {
	s := Shift{
		Creator:     Creator{ID: 5, DNI: "30000000"},
		Invitations: []Invitation{{DNI: "31000000"}},
	}
	if !s.Involves(User{ID: 5}) {
		t.Fatal("creator by id should be involved")
	}
	if !s.Involves(User{DNI: "31000000"}) {
		t.Fatal("invitee should be involved")
	}
	if s.Involves(User{ID: 9, DNI: "39999999"}) {
		t.Fatal("stranger should not be involved")
	}
}
