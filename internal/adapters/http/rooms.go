package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Parlor/internal/app"
	"github.com/dkeye/Parlor/internal/domain"
	"github.com/dkeye/Parlor/internal/metrics"
)

type createRoomRequest struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
}

func listRooms(rooms *app.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms.List()})
	}
}

func createRoom(rooms *app.RoomManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" || req.RoomName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Room ID and name required"})
			return
		}

		room, err := rooms.Create(domain.RoomID(req.RoomID), domain.RoomName(req.RoomName))
		if errors.Is(err, app.ErrRoomExists) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Room already exists"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Room created",
			"room": gin.H{
				"id":        room.Room().ID,
				"name":      room.Room().Name,
				"userCount": 0,
			},
		})
	}
}

func getStats(stats *metrics.Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, stats.Snapshot())
	}
}
