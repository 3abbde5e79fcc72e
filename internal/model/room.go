package model

// Room is a named collaboration space. Participants and room codes are child
// rows; they are loaded into the in-memory fields when the full aggregate is
// needed (serialization, cascade delete) and are otherwise left empty.
//
// A room is only ever created together with its first participant. A room
// whose last participant leaves is eligible for deletion.
type Room struct {
	RoomID   uint   `gorm:"primaryKey;autoIncrement"`
	RoomName string `gorm:"type:varchar(255);not null"`

	Accounts  []Account  `gorm:"-"`
	RoomCodes []RoomCode `gorm:"-"`
}

func (Room) TableName() string { return "rooms" }

// ParticipantNames returns the screen names of the loaded participants.
func (r *Room) ParticipantNames() []string {
	names := make([]string, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		if a.ScreenName != nil {
			names = append(names, *a.ScreenName)
		}
	}
	return names
}
