package domain

// Room is a bookable area. The backend supports create and delete only.
type Room struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// RoomNamed returns the room whose name equals name, if any.
func RoomNamed(rooms []Room, name string) (Room, bool) {
	for _, r := range rooms {
		if r.Name == name {
			return r, true
		}
	}
	return Room{}, false
}
