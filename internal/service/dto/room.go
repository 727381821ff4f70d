package dto

type CreateRoomRequest struct {
	RoomID string `json:"room_id"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
