package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/vakit-app/vakit/internal/model"
)

// MQTTPublisher pushes due notifications to per-device topics. Devices
// subscribe to their own topic; the broker handles fan-out and offline
// queueing (QoS 1).
type MQTTPublisher struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// NewMQTTPublisher connects to the broker. The paho client reconnects on
// its own after transient drops.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTPublisher{client: client}, nil
}

// Publish sends the notification to vakit/<device>/notifications.
func (p *MQTTPublisher) Publish(deviceID int, n model.Notification) error {
	payload, err := json.Marshal(map[string]any{
		"type":  "notification",
		"title": n.Title,
		"body":  n.Body,
		"at":    time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	topic := fmt.Sprintf("vakit/%d/notifications", deviceID)
	token := p.client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// NopPublisher drops every notification. Used when no broker is
// configured so the rest of the service keeps working.
type NopPublisher struct{}

func (NopPublisher) Publish(deviceID int, n model.Notification) error {
	log.Debug().Int("device", deviceID).Str("title", n.Title).
		Msg("no broker configured, notification dropped")
	return nil
}
