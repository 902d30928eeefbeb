package mqtt

import (
	"encoding/json"
	"log"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/pgmkit/xdslconv/internal/converter"
	"github.com/pgmkit/xdslconv/internal/events"
)

// ConversionRequest is the JSON envelope accepted on the request topic.
// A payload that is not JSON is treated as a raw XDSL document.
type ConversionRequest struct {
	Filename string `json:"filename"`
	Document string `json:"document"`
}

// ConversionResponse is published on the response topic.
type ConversionResponse struct {
	OK       bool   `json:"ok"`
	Filename string `json:"filename,omitempty"`
	Code     string `json:"code,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Listener converts XDSL documents received over MQTT.
type Listener struct {
	client        *Client
	requestTopic  string
	responseTopic string
}

// NewListener creates a listener bound to a request/response topic pair.
func NewListener(client *Client, requestTopic, responseTopic string) *Listener {
	return &Listener{
		client:        client,
		requestTopic:  requestTopic,
		responseTopic: responseTopic,
	}
}

// Start connects and subscribes to the request topic.
// Returns true if connected, false otherwise.
func (l *Listener) Start() bool {
	return l.client.StartWithRetry(l.requestTopic, l.handleMessage)
}

// IsConnected reports broker connectivity.
func (l *Listener) IsConnected() bool {
	return l.client.IsConnected()
}

func (l *Listener) handleMessage(_ paho.Client, msg paho.Message) {
	events.Emit("info", "broker.message", "", map[string]interface{}{
		"topic": msg.Topic(),
		"bytes": len(msg.Payload()),
	})

	resp := HandleRequest(msg.Payload())

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("mqtt: failed to marshal response: %v", err)
		return
	}
	if err := l.client.Publish(l.responseTopic, b); err != nil {
		log.Printf("mqtt: failed to publish response: %v", err)
	}
}

// HandleRequest runs one conversion for an incoming payload. Each request
// gets its own converter instance.
func HandleRequest(payload []byte) ConversionResponse {
	var req ConversionRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.Document == "" {
		// Raw document without envelope
		req = ConversionRequest{Filename: "request.xdsl", Document: string(payload)}
	}

	if strings.TrimSpace(req.Document) == "" {
		events.Emit("warn", "request.rejected", "", map[string]interface{}{"source": "mqtt"})
		return ConversionResponse{OK: false, Filename: req.Filename, Error: "empty document"}
	}

	events.Emit("info", "request.received", "", map[string]interface{}{
		"source":   "mqtt",
		"filename": req.Filename,
		"bytes":    len(req.Document),
	})

	conv := converter.New(nil)
	if err := conv.ParseBytes([]byte(req.Document)); err != nil {
		events.Emit("error", "conversion.failed", err.Error(), map[string]interface{}{
			"filename": req.Filename,
		})
		return ConversionResponse{OK: false, Filename: req.Filename, Error: err.Error()}
	}

	code := conv.GenerateCode()
	events.Emit("info", "conversion.completed", "", map[string]interface{}{
		"filename":   req.Filename,
		"nodes":      len(conv.Diagram().Nodes()),
		"arcs":       len(conv.Diagram().Arcs),
		"code_bytes": len(code),
	})

	if pg := events.GetPostgresClient(); pg != nil {
		if err := pg.SaveConversion(req.Filename, len(req.Document), code); err != nil {
			log.Printf("failed to save conversion history: %v", err)
		}
	}

	return ConversionResponse{OK: true, Filename: req.Filename, Code: code}
}
