package speaker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/adapters/upstream"
	"github.com/livetranslate/bridge/internal/app"
	"github.com/livetranslate/bridge/internal/core"
	"github.com/livetranslate/bridge/internal/domain"
)

// commitDebounce lets audio frames sent just before a commit reach the
// upstream transport before the buffer is gated and committed.
const commitDebounce = 100 * time.Millisecond

// bridge owns one speaker session: the client WebSocket, the upstream
// link, and the per-session state. Exclusively owned by run; nothing here
// is shared across sessions.
type bridge struct {
	rooms    core.RoomRegistry
	upstream upstream.Config
	roomID   domain.RoomID

	inited  bool
	gate    core.AudioGate
	tracker *core.TurnTracker
	up      *upstream.Client
}

type clientMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Pair string `json:"pair"`
}

// run resolves the room, connects upstream and drives the two inbound
// loops. It returns only after the upstream-inbound loop has been joined,
// so no outward publish can happen once the session is torn down.
func (b *bridge) run(ctx context.Context, ws *websocket.Conn) {
	defer ws.Close()

	if !b.rooms.Lookup(b.roomID) {
		log.Warn().Str("module", "speaker").Str("room", string(b.roomID)).Msg("room not found")
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"error":"room not found"}`))
		return
	}

	up, err := upstream.Dial(ctx, b.upstream)
	if err != nil {
		log.Error().Err(err).Str("module", "speaker").Msg("upstream connect failed")
		app.UpstreamConnectFailures.Inc()
		b.sendError(ws, "upstream connect failed: "+err.Error())
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return
	}
	b.up = up
	defer up.Close()

	app.ActiveSessions.Inc()
	defer app.ActiveSessions.Dec()

	b.tracker = core.NewTurnTracker()
	translator := &upstream.Translator{
		Tracker: b.tracker,
		Publish: func(f core.Frame) {
			if err := b.rooms.Publish(b.roomID, f); err != nil {
				log.Error().Err(err).Str("module", "speaker").Str("room", string(b.roomID)).Msg("publish")
			}
		},
	}

	// Upstream-inbound loop. A read error ends the session; closing the
	// upstream conn in the deferred Close unblocks it on our side.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			data, err := up.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "speaker").Msg("upstream read loop ended")
				return
			}
			translator.HandleMessage(data)
		}
	}()

	b.clientLoop(ws)

	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	up.Close()
	<-done
	log.Info().Str("module", "speaker").Str("room", string(b.roomID)).Msg("session closed")
}

// clientLoop reads speaker messages until the connection drops or the
// client sends a close frame.
func (b *bridge) clientLoop(ws *websocket.Conn) {
	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			log.Info().Err(err).Str("module", "speaker").Msg("client read loop ended")
			return
		}

		switch mt {
		case websocket.TextMessage:
			var msg clientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Warn().Err(err).Str("module", "speaker").Msg("bad client json")
				continue
			}
			switch msg.Type {
			case "init":
				b.handleInit(msg)
			case "commit":
				b.handleCommit()
			default:
				log.Warn().Str("module", "speaker").Str("type", msg.Type).Msg("unknown client message")
			}

		case websocket.BinaryMessage:
			b.handleAudio(data)
		}
	}
}

func (b *bridge) handleInit(msg clientMsg) {
	d := domain.DirectiveFor(domain.LanguagePair(msg.Pair), msg.Name)
	if err := b.up.UpdateSession(d, b.upstream.TranscribeModel); err != nil {
		log.Error().Err(err).Str("module", "speaker").Msg("session.update send")
		return
	}
	b.inited = true
	b.gate.Reset()
	log.Info().Str("module", "speaker").Str("pair", msg.Pair).Str("lang", d.SourceLang).Msg("session initialized")
}

// handleCommit applies the admission chain: initialized session, enough
// buffered audio, no live turn (or a stale one we may cancel). Rejections
// are silent towards the speaker.
func (b *bridge) handleCommit() {
	if !b.inited {
		app.CommitsSkipped.WithLabelValues("uninitialized").Inc()
		return
	}

	time.Sleep(commitDebounce)

	if !b.gate.AdmitCommit() {
		log.Info().Str("module", "speaker").
			Int("buffered_ms", core.EstimateDurationMs(b.gate.Buffered())).
			Int("need_ms", core.MinCommitMs).
			Msg("skip commit: buffer too short")
		app.CommitsSkipped.WithLabelValues("buffer_short").Inc()
		return
	}

	switch b.tracker.AdmitCommit() {
	case core.AdmitReject:
		log.Info().Str("module", "speaker").
			Dur("since_last_fragment", b.tracker.SinceLastFragment()).
			Msg("skip commit: turn still active")
		app.CommitsSkipped.WithLabelValues("turn_active").Inc()
		return
	case core.AdmitCancelFirst:
		log.Info().Str("module", "speaker").Msg("cancelling stale turn")
		if err := b.up.CancelResponse(); err != nil {
			log.Error().Err(err).Str("module", "speaker").Msg("response.cancel send")
			return
		}
		app.TurnsCancelled.Inc()
	}

	if err := b.up.CommitBuffer(); err != nil {
		log.Error().Err(err).Str("module", "speaker").Msg("buffer commit send")
		return
	}
	if err := b.up.CreateResponse(); err != nil {
		log.Error().Err(err).Str("module", "speaker").Msg("response.create send")
		return
	}
	b.tracker.StartTurn()
	b.gate.Reset()
	app.TurnsStarted.Inc()
}

func (b *bridge) handleAudio(pcm []byte) {
	if !b.inited {
		return
	}
	b.gate.Append(len(pcm))
	log.Debug().Str("module", "speaker").
		Int("buffered_bytes", b.gate.Buffered()).
		Int("buffered_ms", core.EstimateDurationMs(b.gate.Buffered())).
		Msg("audio frame")
	if err := b.up.AppendAudio(pcm); err != nil {
		log.Error().Err(err).Str("module", "speaker").Msg("audio append send")
	}
}

func (b *bridge) sendError(ws *websocket.Conn, detail string) {
	msg, _ := json.Marshal(map[string]string{"error": detail})
	_ = ws.WriteMessage(websocket.TextMessage, msg)
}
