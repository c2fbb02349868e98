package room

type Room struct {
	ID       int    `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
	Location string `db:"location" json:"location"`
}

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required,max=120" example:"Studio A"`
	Capacity int    `json:"capacity" binding:"required,min=1" example:"20"`
	Location string `json:"location" binding:"max=255" example:"Second floor"`
}
