// Package api is the HTTP front end of the converter service: document
// upload, generated-code download, event snapshots, and a live event stream.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pgmkit/xdslconv/internal/converter"
	"github.com/pgmkit/xdslconv/internal/events"
)

// maxDocumentBytes caps uploaded XDSL documents.
const maxDocumentBytes = 10 << 20

// readinessState tracks the health of optional backends for /metrics and
// alerting.
type readinessState struct {
	mu                sync.RWMutex
	mqttConnected     bool
	postgresConnected bool
}

var readiness = &readinessState{}

// SetMQTTConnected records broker connectivity.
func SetMQTTConnected(connected bool) {
	readiness.mu.Lock()
	readiness.mqttConnected = connected
	readiness.mu.Unlock()
}

// SetPostgresConnected records database connectivity.
func SetPostgresConnected(connected bool) {
	readiness.mu.Lock()
	readiness.postgresConnected = connected
	readiness.mu.Unlock()
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	resp := HealthResponse{
		Status:    "ok",
		Service:   "xdslconv",
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events.Snapshot())
}

type ConvertResponse struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// readDocument extracts the uploaded document and its filename. Multipart
// uploads use the "file" field; otherwise the raw request body is the
// document.
func readDocument(r *http.Request) ([]byte, string, error) {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing file field: %w", err)
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes))
		if err != nil {
			return nil, "", err
		}
		return data, header.Filename, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		return nil, "", err
	}
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = "upload.xdsl"
	}
	return data, name, nil
}

// convertHandler runs one full conversion per request. Each request gets
// its own converter instance; no conversion state is shared.
func convertHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(ConvertResponse{OK: false, Error: "method not allowed"})
		return
	}

	data, filename, err := readDocument(r)
	if err != nil || len(data) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ConvertResponse{OK: false, Error: "empty or unreadable document"})
		events.Emit("warn", "request.rejected", "", map[string]interface{}{"source": "http"})
		return
	}

	events.Emit("info", "request.received", "", map[string]interface{}{
		"source":   "http",
		"filename": filename,
		"bytes":    len(data),
	})

	conv := converter.New(nil)
	if err := conv.ParseBytes(data); err != nil {
		IncConversionErrors()
		events.Emit("error", "conversion.failed", err.Error(), map[string]interface{}{
			"filename": filename,
		})
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(ConvertResponse{OK: false, Error: err.Error()})
		return
	}

	code := conv.GenerateCode()
	IncConversions()
	events.Emit("info", "conversion.completed", "", map[string]interface{}{
		"filename":   filename,
		"nodes":      len(conv.Diagram().Nodes()),
		"arcs":       len(conv.Diagram().Arcs),
		"code_bytes": len(code),
	})

	if pg := events.GetPostgresClient(); pg != nil {
		if err := pg.SaveConversion(filename, len(data), code); err != nil {
			log.Printf("failed to save conversion history: %v", err)
		}
	}

	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Type", "text/x-python")
		w.Header().Set("Content-Disposition", `attachment; filename="network.py"`)
		_, _ = w.Write([]byte(code))
		return
	}

	_ = json.NewEncoder(w).Encode(ConvertResponse{OK: true, Code: code})
}

// conversionsHandler lists recent conversion history from Postgres.
func conversionsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	pg := events.GetPostgresClient()
	if pg == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(ConvertResponse{OK: false, Error: "history storage not configured"})
		return
	}

	rows, err := pg.RecentConversions(50)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ConvertResponse{OK: false, Error: err.Error()})
		return
	}

	_ = json.NewEncoder(w).Encode(rows)
}

// ListenAndServe starts the API server on the given port.
// It blocks until the server exits.
func ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/events", eventsHandler)
	mux.HandleFunc("/metrics", metricsHandler)
	mux.HandleFunc("/ws/events", wsEventsHandler)
	mux.HandleFunc("/convert", RequireAuth(convertHandler))
	mux.HandleFunc("/conversions", RequireAuth(conversionsHandler))
	mux.HandleFunc("/ui", uiHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/ui", http.StatusFound)
	})

	addr := fmt.Sprintf(":%d", port)

	if IsTLSEnabled() {
		log.Printf("API listening on %s (TLS)\n", addr)
		return http.ListenAndServeTLS(addr, tlsConfig.CertFile, tlsConfig.KeyFile, mux)
	}

	log.Printf("API listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

// Start starts the API server in a goroutine.
// Errors are logged but do not stop the caller.
func Start(port int) {
	go func() {
		if err := ListenAndServe(port); err != nil {
			log.Printf("api server error: %v", err)
		}
	}()
}
