package core

import "encoding/json"

// Outward event vocabulary published to a room: "partial" replaces the
// previous partial for the turn, "final" ends the turn's text, "error"
// relays the raw upstream payload.

type textEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type errorEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func PartialFrame(text string) Frame {
	b, _ := json.Marshal(textEvent{Type: "partial", Text: text})
	return b
}

func FinalFrame(text string) Frame {
	b, _ := json.Marshal(textEvent{Type: "final", Text: text})
	return b
}

func ErrorFrame(raw json.RawMessage) Frame {
	b, err := json.Marshal(errorEvent{Type: "error", Data: raw})
	if err != nil {
		// raw came from the upstream wire and may be junk; relay it quoted
		b, _ = json.Marshal(errorEvent{Type: "error", Data: mustQuote(raw)})
	}
	return b
}

func mustQuote(raw []byte) json.RawMessage {
	q, _ := json.Marshal(string(raw))
	return q
}
