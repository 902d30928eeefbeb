package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// conversion
	"conversion.started":   {},
	"conversion.completed": {},
	"conversion.failed":    {},

	// request (HTTP or MQTT intake)
	"request.received": {},
	"request.rejected": {},

	// broker
	"broker.connected":    {},
	"broker.disconnected": {},
	"broker.message":      {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
