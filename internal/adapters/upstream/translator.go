package upstream

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/app"
	"github.com/livetranslate/bridge/internal/core"
)

// Translator converts upstream events into the outward vocabulary for one
// session: partials carry the cumulative turn text, a done event flushes
// the buffer as a final, errors relay the raw payload. State is owned by
// the session's upstream-inbound loop; never shared across sessions.
type Translator struct {
	Tracker *core.TurnTracker
	Publish func(core.Frame)

	buf strings.Builder
}

// HandleMessage processes one upstream text frame.
func (t *Translator) HandleMessage(data []byte) {
	ev := ParseEvent(data)
	switch ev.Kind {
	case KindTurnCreated:
		log.Info().Str("module", "upstream").Msg("← response.created")
		t.Tracker.StartTurn()

	case KindDelta:
		t.Tracker.Fragment()
		t.buf.WriteString(ev.Delta)
		t.emit("partial", core.PartialFrame(t.buf.String()))

	case KindDone:
		log.Info().Str("module", "upstream").Str("type", ev.Type).Msg("← turn done")
		if t.buf.Len() > 0 {
			t.emit("final", core.FinalFrame(t.buf.String()))
			t.buf.Reset()
		}
		t.Tracker.Finish()

	case KindError:
		log.Error().Str("module", "upstream").RawJSON("payload", ev.Raw).Msg("← error")
		t.emit("error", core.ErrorFrame(ev.Raw))
		// The turn is abandoned; its text never becomes a final.
		t.buf.Reset()
		t.Tracker.Finish()
	}
}

func (t *Translator) emit(kind string, f core.Frame) {
	app.EventsPublished.WithLabelValues(kind).Inc()
	t.Publish(f)
}
