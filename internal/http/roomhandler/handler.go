package roomhandler

import (
	"net/http"

	"chatrelay/internal/chat"
	"chatrelay/internal/roomid"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	issuer *roomid.Issuer
	hub    *chat.Hub
}

func New(issuer *roomid.Issuer, hub *chat.Hub) *Handler {
	return &Handler{issuer: issuer, hub: hub}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/chat/rooms", h.create)
	r.POST("/chat/rooms/activate", h.activate)
	r.POST("/chat/rooms/userlist", h.userList)
}

// create generates a fresh, unreserved room id. The id is only reserved once
// the client activates it or the first member joins.
func (h *Handler) create(c *gin.Context) {
	roomID, err := h.issuer.Generate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, CreateRoomResponse{RoomID: roomID})
}

// activate reserves a caller-supplied room id.
func (h *Handler) activate(c *gin.Context) {
	var body ActivateRoomBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing 'roomId'"})
		return
	}
	if err := h.issuer.Activate(c.Request.Context(), body.RoomID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Room ID activated successfully."})
}

// userList asks the dispatcher to broadcast the room's current roster to its
// members. An unknown room is a no-op on the hub side.
func (h *Handler) userList(c *gin.Context) {
	var body UserListBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing 'roomId'"})
		return
	}
	h.hub.BroadcastUserList(body.RoomID)
	c.Status(http.StatusAccepted)
}
