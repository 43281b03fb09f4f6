// Package upstream speaks the realtime engine's wire protocol: a secure
// WebSocket carrying JSON directives out and JSON events in.
package upstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/livetranslate/bridge/internal/domain"
)

type Config struct {
	URL             string // base endpoint, e.g. wss://api.openai.com/v1/realtime
	APIKey          string
	Model           string
	TranscribeModel string
	ConnectTimeout  time.Duration
}

// Client is one session's duplex link to the engine. Reads happen from a
// single goroutine; writes are serialized by a mutex because the commit
// path sends several directives back to back.
type Client struct {
	conn *websocket.Conn

	wmu  sync.Mutex
	once sync.Once
}

// Dial opens the upstream connection within cfg.ConnectTimeout. No retry:
// a failed dial is fatal to the session and the speaker must reconnect.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	url := fmt.Sprintf("%s?model=%s", cfg.URL, cfg.Model)

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.ConnectTimeout,
		Subprotocols:     []string{"realtime"},
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("upstream connect: %w", err)
	}
	log.Info().Str("module", "upstream").Str("url", cfg.URL).Int("status", resp.StatusCode).Msg("connected")
	return &Client{conn: conn}, nil
}

// ReadMessage blocks for the next upstream frame. Non-text frames are
// skipped; the protocol is JSON text only.
func (c *Client) ReadMessage() ([]byte, error) {
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if mt == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *Client) Close() {
	c.once.Do(func() { _ = c.conn.Close() })
}

// UpdateSession configures the engine for a translation session. Turn
// detection stays off: turn boundaries are controlled exclusively by
// explicit commit directives.
func (c *Client) UpdateSession(d domain.TranslationDirective, transcribeModel string) error {
	return c.send(map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"instructions": d.Instructions,
			"modalities":   []string{"text"},
			// Turn detection off: commits are the only turn boundary.
			"turn_detection": nil,
			"input_audio_transcription": map[string]any{
				"model":    transcribeModel,
				"language": d.SourceLang,
			},
		},
	})
}

// AppendAudio forwards one binary audio frame as a base64 append directive.
func (c *Client) AppendAudio(pcm []byte) error {
	return c.send(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": base64.StdEncoding.EncodeToString(pcm),
	})
}

// CommitBuffer closes out the accumulated audio buffer upstream.
func (c *Client) CommitBuffer() error {
	return c.send(map[string]any{"type": "input_audio_buffer.commit"})
}

// CreateResponse starts a translation turn: text only, no persisted
// conversation context, fixed temperature.
func (c *Client) CreateResponse() error {
	return c.send(map[string]any{
		"type": "response.create",
		"response": map[string]any{
			"modalities":   []string{"text"},
			"conversation": "none",
			"temperature":  0.6,
		},
	})
}

// CancelResponse asks the engine to abandon the in-flight turn.
func (c *Client) CancelResponse() error {
	return c.send(map[string]any{"type": "response.cancel"})
}

func (c *Client) send(v map[string]any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	logDirective(v)
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// logDirective logs an outbound directive with base64 audio bodies redacted
// down to their size.
func logDirective(v map[string]any) {
	t, _ := v["type"].(string)
	ev := log.Debug().Str("module", "upstream").Str("directive", t)
	if audio, ok := v["audio"].(string); ok {
		ev.Str("audio", fmt.Sprintf("<base64:%d chars>", len(audio)))
	}
	ev.Msg("→ upstream")
}
