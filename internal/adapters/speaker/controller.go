// Package speaker handles the inbound duplex connection of the one party
// that produces audio, and bridges it to the upstream translation engine.
package speaker

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/adapters/upstream"
	"github.com/livetranslate/bridge/internal/core"
	"github.com/livetranslate/bridge/internal/domain"
)

type Controller struct {
	Rooms    core.RoomRegistry
	Upstream upstream.Config
}

func NewController(rooms core.RoomRegistry, cfg upstream.Config) *Controller {
	return &Controller{Rooms: rooms, Upstream: cfg}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSpeaker upgrades the request and runs the session bridge until
// either side of the duplex pair goes away.
func (ctl *Controller) HandleSpeaker(ctx context.Context, c *gin.Context) {
	roomID := domain.RoomID(c.Param("room"))
	log.Info().Str("module", "speaker").Str("room", string(roomID)).Msg("new speaker connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "speaker").Msg("ws upgrade")
		return
	}

	b := &bridge{
		rooms:    ctl.Rooms,
		upstream: ctl.Upstream,
		roomID:   roomID,
	}
	b.run(ctx, ws)
}
