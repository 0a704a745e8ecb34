package domain

import (
	"reflect"
	"testing"
)

func sampleShift() Shift {
	return Shift{
		ID:        1,
		Date:      "2025-05-12",
		StartTime: "10:00",
		EndTime:   "12:00",
		Theme:     "Consulta de tesis",
		Area:      "Sala A",
		Status:    ShiftPending,
		Creator:   Creator{ID: 10, DNI: "30111222", Name: "Ana"},
		Invitations: []Invitation{
			{ID: 100, ShiftID: 1, DNI: "40111222", Status: InvitationPending},
			{ID: 101, ShiftID: 1, DNI: "40333444", Status: InvitationAccepted},
		},
	}
}

func TestCardActions_AdminAndUserDiffer(t *testing.T) {
	s := sampleShift()
	admin := User{ID: 1, DNI: "20000000", Role: RoleAdmin}
	user := User{ID: 2, DNI: "20000001", Role: RoleUser}

	got := CardActions(s, admin)
	want := []CardAction{ActionChangeStatus, ActionEdit, ActionCancel}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("admin actions: got %v, want %v", got, want)
	}

	if got := CardActions(s, user); len(got) != 0 {
		t.Fatalf("unrelated user should have no actions, got %v", got)
	}
}

func TestCardActions_Creator(t *testing.T) {
	s := sampleShift()
	creator := User{ID: 10, DNI: "30111222", Role: RoleUser}

	got := CardActions(s, creator)
	want := []CardAction{ActionEdit, ActionCancel}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	s.Status = ShiftCancelled
	if got := CardActions(s, creator); len(got) != 0 {
		t.Fatalf("cancelled shift should expose no creator actions, got %v", got)
	}
}

func TestCardActions_Invitee(t *testing.T) {
	s := sampleShift()

	pending := User{ID: 20, DNI: "40111222", Role: RoleUser}
	got := CardActions(s, pending)
	want := []CardAction{ActionAccept, ActionReject}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	answered := User{ID: 21, DNI: "40333444", Role: RoleUser}
	if got := CardActions(s, answered); len(got) != 0 {
		t.Fatalf("answered invitee should have no actions, got %v", got)
	}
}

func TestCardActions_CancelledAdminKeepsStatusChange(t *testing.T) {
	s := sampleShift()
	s.Status = ShiftCancelled
	admin := User{ID: 1, DNI: "20000000", Role: RoleAdmin}

	got := CardActions(s, admin)
	if !reflect.DeepEqual(got, []CardAction{ActionChangeStatus}) {
		t.Fatalf("got %v", got)
	}
	if Allows(s, admin, ActionCancel) {
		t.Fatalf("cancel should not be allowed on a cancelled shift")
	}
}
