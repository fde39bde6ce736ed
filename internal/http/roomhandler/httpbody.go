package roomhandler

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
} // @name CreateRoomResponse

type ActivateRoomBody struct {
	RoomID string `json:"roomId" binding:"required" example:"aB3dE5fG7hI9kL1m"`
} // @name ActivateRoomRequest

type UserListBody struct {
	RoomID string `json:"roomId" binding:"required"`
} // @name UserListRequest

type MessageResponse struct {
	Message string `json:"message"`
} // @name MessageResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
