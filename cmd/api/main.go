package main

import (
	"log"
	"os"
	"time"

	"github.com/pgmkit/xdslconv/internal/api"
	"github.com/pgmkit/xdslconv/internal/config"
	"github.com/pgmkit/xdslconv/internal/events"
	"github.com/pgmkit/xdslconv/internal/mqtt"
	"github.com/pgmkit/xdslconv/internal/storage/postgres"
)

func configPath() string {
	if p := os.Getenv("XDSLCONV_CONFIG"); p != "" {
		return p
	}
	return "service.yaml"
}

func main() {
	cfg, err := config.LoadServiceConfig(configPath())
	if err != nil {
		log.Fatalf("failed to load service.yaml: %v", err)
	}
	if target := cfg.GeneratorTarget(); target != "pyagrum" {
		log.Fatalf("unsupported generator target: %s", target)
	}

	api.InitMetrics()
	api.InitAuth()
	api.InitTLS()
	api.InitAlerts()
	api.SetServiceName(cfg.Service.Name)

	// Postgres is optional: without it the service keeps events and
	// history in memory only.
	if pg, err := postgres.New(cfg.Service.ID); err != nil {
		log.Printf("postgres unavailable, running without history: %v", err)
		api.SetPostgresConnected(false)
	} else {
		events.SetPostgresClient(pg)
		api.SetPostgresConnected(true)
		defer pg.Close()
	}

	if cfg.MQTT.Enabled {
		client := mqtt.NewClient(cfg.Service.ID)
		listener := mqtt.NewListener(client, cfg.RequestTopic(), cfg.ResponseTopic())
		connected := listener.Start()
		api.SetMQTTConnected(connected)
		if connected {
			events.Emit("info", "broker.connected", "", map[string]interface{}{
				"broker": mqtt.BrokerURL(),
				"topic":  cfg.RequestTopic(),
			})
		}
	}

	api.StartAlertMonitor(10 * time.Second)

	events.Emit("info", "system.startup", "converter service starting", map[string]interface{}{
		"service": cfg.Service.ID,
		"port":    cfg.HTTPPort(),
	})

	if err := api.ListenAndServe(cfg.HTTPPort()); err != nil {
		log.Fatalf("api server failed: %v", err)
	}
}
