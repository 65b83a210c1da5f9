package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"

	"bounce-and-rally/server/logging"
	loggingsinks "bounce-and-rally/server/logging/sinks"
	"bounce-and-rally/server/protocol"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "server.toml", "path to the TOML server config")
	flag.Parse()

	cfg, err := loadServerConfig(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	router, err := buildLogRouter(cfg)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	}()

	telemetry := newTelemetryCounters()
	defaultTier, _ := parseTier(cfg.Tier)
	hub := newHub(router, telemetry, cfg.Seed, defaultTier)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	http.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string               `json:"status"`
			ServerTime int64                `json:"serverTime"`
			TickRate   int                  `json:"tickRate"`
			Heartbeat  int64                `json:"heartbeatMillis"`
			Telemetry  telemetrySnapshot    `json:"telemetry"`
			Sessions   []diagnosticsSession `json:"sessions"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			TickRate:   tickRate,
			Heartbeat:  heartbeatInterval.Milliseconds(),
			Telemetry:  telemetry.Snapshot(),
			Sessions:   hub.DiagnosticsSnapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	http.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query()
		viewportWidth := parseFloatQuery(query.Get("width"))
		viewportHeight := parseFloatQuery(query.Get("height"))

		join := hub.Join(viewportWidth, viewportHeight, query.Get("tier"))
		data, err := json.Marshal(join)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("id")
		if sessionID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed for %s: %v", sessionID, err)
			return
		}

		sub, initial, ok := hub.Subscribe(sessionID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown session")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		data, err := json.Marshal(initial)
		if err != nil {
			log.Printf("failed to marshal initial state for %s: %v", sessionID, err)
			hub.Disconnect(sessionID, "encode_failed")
			return
		}

		sub.mu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			sub.mu.Unlock()
			hub.Disconnect(sessionID, "write_failed")
			return
		}
		sub.mu.Unlock()

		readLoop(hub, sessionID, sub, conn)
	})

	clientDir := filepath.Clean(cfg.ClientDir)
	http.Handle("/", http.FileServer(http.Dir(clientDir)))

	log.Printf("server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// readLoop translates incoming client messages into simulation commands until
// the connection drops.
func readLoop(hub *Hub, sessionID string, sub *subscriber, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			hub.Disconnect(sessionID, "read_failed")
			return
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("discarding malformed message from %s: %v", sessionID, err)
			continue
		}

		now := time.Now()
		switch msg.Type {
		case protocol.TypeKey:
			hub.QueueCommand(sessionID, Command{
				Type:     CommandKey,
				IssuedAt: now,
				Key:      &KeyCommand{Key: msg.Key, Held: msg.Held},
			})
		case protocol.TypePointer:
			hub.QueueCommand(sessionID, Command{
				Type:     CommandPointer,
				IssuedAt: now,
				Pointer:  &PointerCommand{Y: msg.Y, Active: msg.Active},
			})
		case protocol.TypeTouch:
			hub.QueueCommand(sessionID, Command{
				Type:     CommandTouch,
				IssuedAt: now,
				Touch:    &TouchCommand{DeltaY: msg.DeltaY},
			})
		case protocol.TypeStart:
			cmd := Command{Type: CommandStart, IssuedAt: now}
			if tier, ok := parseTier(msg.Tier); ok {
				cmd.Start = &StartCommand{Tier: tier}
			}
			hub.QueueCommand(sessionID, cmd)
		case protocol.TypeRestart:
			hub.QueueCommand(sessionID, Command{Type: CommandRestart, IssuedAt: now})
		case protocol.TypeTier:
			if tier, ok := parseTier(msg.Tier); ok {
				hub.QueueCommand(sessionID, Command{
					Type:     CommandSetTier,
					IssuedAt: now,
					Tier:     &TierCommand{Tier: tier},
				})
			}
		case protocol.TypeResize:
			hub.QueueCommand(sessionID, Command{
				Type:     CommandResize,
				IssuedAt: now,
				Resize:   &ResizeCommand{ViewportWidth: msg.Width, ViewportHeight: msg.Height},
			})
		case protocol.TypeHeartbeat:
			rtt, ok := hub.UpdateHeartbeat(sessionID, now, msg.SentAt)
			if !ok {
				continue
			}

			ack := heartbeatMessage{
				Type:       "heartbeat",
				ServerTime: now.UnixMilli(),
				ClientTime: msg.SentAt,
				RTTMillis:  rtt.Milliseconds(),
			}

			data, err := json.Marshal(ack)
			if err != nil {
				log.Printf("failed to marshal heartbeat ack for %s: %v", sessionID, err)
				continue
			}

			sub.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				sub.mu.Unlock()
				hub.Disconnect(sessionID, "write_failed")
				return
			}
			sub.mu.Unlock()
		default:
			log.Printf("unknown message type %q from %s", msg.Type, sessionID)
		}
	}
}

// buildLogRouter assembles the event pipeline from the configured sinks.
func buildLogRouter(cfg serverConfig) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = cfg.Logging.Sinks
	switch cfg.Logging.MinSeverity {
	case "debug":
		logCfg.MinimumSeverity = logging.SeverityDebug
	case "warn":
		logCfg.MinimumSeverity = logging.SeverityWarn
	case "error":
		logCfg.MinimumSeverity = logging.SeverityError
	}

	named := make([]logging.NamedSink, 0, len(logCfg.EnabledSinks))
	for _, name := range logCfg.EnabledSinks {
		switch name {
		case "console":
			named = append(named, logging.NamedSink{
				Name: "console",
				Sink: loggingsinks.NewConsoleSink(os.Stdout, logCfg.Console),
			})
		case "json":
			path := cfg.Logging.JSONPath
			if path == "" {
				path = "events.ndjson"
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open json sink %s: %w", path, err)
			}
			named = append(named, logging.NamedSink{
				Name: "json",
				Sink: loggingsinks.NewJSON(file, logCfg.JSON.FlushInterval),
			})
		case "memory":
			named = append(named, logging.NamedSink{
				Name: "memory",
				Sink: loggingsinks.NewMemorySink(),
			})
		default:
			return nil, fmt.Errorf("unknown logging sink %q", name)
		}
	}

	return logging.NewRouter(nil, logCfg, named)
}

func parseFloatQuery(raw string) float64 {
	var value float64
	if raw == "" {
		return 0
	}
	if _, err := fmt.Sscanf(raw, "%f", &value); err != nil {
		return 0
	}
	return value
}
