package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	EventTaskCreated     = "task.created"
	EventTaskCompleted   = "task.completed"
	EventTaskVerified    = "task.verified"
	EventRewardRedeemed  = "reward.redeemed"
	EventReminderDue     = "reminder.due"
	EventWorksheetGraded = "worksheet.graded"
	EventMemberAdded     = "member.added"
)

// Event is the payload published on a family's topic.
type Event struct {
	Type      string    `json:"type"`
	FamilyID  int       `json:"family_id"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers family events to subscribed clients.
type Publisher interface {
	Publish(ctx context.Context, familyID int, eventType string, data any) error
}

func FamilyTopic(familyID int) string {
	return fmt.Sprintf("family/%d/events", familyID)
}

type MQTTPublisher struct {
	client  mqtt.Client
	timeout time.Duration
	mu      sync.Mutex
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("[mqtt] connection lost")
}

// NewMQTTPublisher connects to brokerURL; paho reconnects on its own after that.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(mqtt.Client) { log.Info().Str("broker", brokerURL).Msg("[mqtt] connected") }
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return NewMQTTPublisherWithClient(client), nil
}

func NewMQTTPublisherWithClient(client mqtt.Client) *MQTTPublisher {
	return &MQTTPublisher{client: client, timeout: 5 * time.Second}
}

func (p *MQTTPublisher) Publish(ctx context.Context, familyID int, eventType string, data any) error {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		FamilyID:  familyID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	token := p.client.Publish(FamilyTopic(familyID), 1, false, payload)
	p.mu.Unlock()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("publish to %s timed out", FamilyTopic(familyID))
	}
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, familyID int, eventType string, _ any) error {
	log.Debug().Int("family_id", familyID).Str("event", eventType).Msg("[notify] no broker configured, event dropped")
	return nil
}

// Fire publishes in the background; request handlers use it so a slow broker never blocks a response.
func Fire(p Publisher, familyID int, eventType string, data any) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Publish(ctx, familyID, eventType, data); err != nil {
			log.Error().Err(err).Int("family_id", familyID).Str("event", eventType).Msg("[notify] publish failed")
		}
	}()
}
