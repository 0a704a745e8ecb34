package domain

// CardAction is an operation a viewer may trigger from a shift card.
type CardAction string

const (
	ActionChangeStatus CardAction = "change_status"
	ActionEdit         CardAction = "edit"
	ActionCancel       CardAction = "cancel"
	ActionAccept       CardAction = "accept"
	ActionReject       CardAction = "reject"
)

// CardActions returns the actions viewer may perform on s, in display order.
func CardActions(s Shift, viewer User) []CardAction {
	var actions []CardAction
	open := s.Status != ShiftCancelled

	if viewer.IsAdmin() {
		actions = append(actions, ActionChangeStatus)
	}
	if open && (viewer.IsAdmin() || s.IsCreator(viewer)) {
		actions = append(actions, ActionEdit, ActionCancel)
	}
	if inv, ok := s.InvitationFor(viewer.DNI); ok && open && inv.Pending() {
		actions = append(actions, ActionAccept, ActionReject)
	}
	return actions
}

// Allows reports whether action is among CardActions(s, viewer).
func Allows(s Shift, viewer User, action CardAction) bool {
	for _, a := range CardActions(s, viewer) {
		if a == action {
			return true
		}
	}
	return false
}
