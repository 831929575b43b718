package domain

type (
	RoomID   string
	RoomName string
)

type Room struct {
	ID   RoomID
	Name RoomName
}
