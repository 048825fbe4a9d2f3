package models

// DefaultRoomCapacity applies when a room document omits its capacity.
const DefaultRoomCapacity = 20

// Room is a physical room with a seating capacity. A course whose room has no
// room document enforces no capacity limit at all.
type Room struct {
	Room     string `bson:"room" json:"room"`
	Capacity int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
}

// EffectiveCapacity returns the configured capacity or the default.
func (r Room) EffectiveCapacity() int {
	if r.Capacity > 0 {
		return r.Capacity
	}
	return DefaultRoomCapacity
}
