package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/config"
	"github.com/livetranslate/bridge/internal/core"
	"github.com/livetranslate/bridge/internal/domain"
)

type createRoomReq struct {
	Name string `json:"name"`
}

type createRoomResp struct {
	RoomID   string `json:"room_id"`
	ShareURL string `json:"share_url"`
}

func createRoom(cfg *config.Config, rooms core.RoomRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomReq
		_ = c.ShouldBindJSON(&req) // body is optional

		id := rooms.Create()
		resp := createRoomResp{
			RoomID:   string(id),
			ShareURL: fmt.Sprintf("%s/view?room=%s", cfg.BaseURL, id),
		}
		log.Info().Str("module", "adapters.http").Str("room", resp.RoomID).Str("share_url", resp.ShareURL).Msg("room created")
		c.JSON(http.StatusCreated, resp)
	}
}

// streamRoom is the viewer endpoint: a one-way SSE stream of the room's
// outward events, kept alive with periodic comments. Stays open until the
// viewer disconnects.
func streamRoom(cfg *config.Config, rooms core.RoomRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := domain.RoomID(c.Param("room"))
		sub, err := rooms.Subscribe(roomID)
		if err != nil {
			c.String(http.StatusNotFound, "room not found")
			return
		}
		defer sub.Cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		keepAlive := time.NewTicker(cfg.SSEKeepAlive)
		defer keepAlive.Stop()

		log.Info().Str("module", "adapters.http").Str("room", string(roomID)).Msg("viewer attached")
		c.Stream(func(w io.Writer) bool {
			select {
			case f, ok := <-sub.Events():
				if !ok {
					return false
				}
				_ = sse.Encode(w, sse.Event{Data: string(f)})
				return true
			case <-keepAlive.C:
				_, _ = io.WriteString(w, ": keep-alive\n\n")
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
		log.Info().Str("module", "adapters.http").Str("room", string(roomID)).Msg("viewer detached")
	}
}
