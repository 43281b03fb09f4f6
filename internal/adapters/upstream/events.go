package upstream

import "encoding/json"

// EventKind is the closed set of upstream event classes the bridge reacts
// to. Everything else is KindIgnored.
type EventKind int

const (
	KindIgnored EventKind = iota
	KindTurnCreated
	KindDelta
	KindDone
	KindError
)

// Event is a classified upstream message. Delta is set for KindDelta; Raw
// always holds the original payload.
type Event struct {
	Kind  EventKind
	Type  string
	Delta string
	Raw   json.RawMessage
}

// wireEvent covers both observed delta shapes: a flat "delta" string, or a
// nested delta object tagged "output_text.delta" carrying "text". The two
// shapes may interleave within one session.
type wireEvent struct {
	Type  string          `json:"type"`
	Delta json.RawMessage `json:"delta"`
}

type nestedDelta struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ParseEvent classifies one upstream text frame. Unparseable input and
// unknown event types map to KindIgnored.
func ParseEvent(data []byte) Event {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{Kind: KindIgnored, Raw: data}
	}

	ev := Event{Kind: KindIgnored, Type: w.Type, Raw: data}
	switch w.Type {
	case "response.created":
		ev.Kind = KindTurnCreated

	case "response.output_text.delta", "response.text.delta":
		var s string
		if err := json.Unmarshal(w.Delta, &s); err == nil {
			ev.Kind = KindDelta
			ev.Delta = s
		}

	case "response.delta":
		var n nestedDelta
		if err := json.Unmarshal(w.Delta, &n); err == nil && n.Type == "output_text.delta" {
			ev.Kind = KindDelta
			ev.Delta = n.Text
		}

	case "response.output_text.done", "response.completed", "response.text.done", "response.done":
		ev.Kind = KindDone

	case "error":
		ev.Kind = KindError
	}
	return ev
}
