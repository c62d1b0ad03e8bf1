package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"habittracker/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// mqttPublisher is the subset of mqtt.Client used for publishing.
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnectionOpen() bool
	Disconnect(quiesce uint)
}

// MQTTNotificationService publishes the current streak as a retained JSON
// message, so subscribers see the latest state as soon as they connect.
type MQTTNotificationService struct {
	client mqttPublisher
	topic  string
	logger *zap.Logger
}

// NewMQTTNotificationService connects to broker (e.g. tcp://127.0.0.1:1883).
func NewMQTTNotificationService(broker, clientID, topic string, logger *zap.Logger) (*MQTTNotificationService, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(10 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.Info("Connected to MQTT broker", zap.String("broker", broker))
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn("MQTT connection lost", zap.Error(err))
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	// With ConnectRetry the token only completes once connected; don't block
	// startup on a broker that is down.
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", broker, token.Error())
	}
	return newMQTTNotificationService(client, topic, logger), nil
}

func newMQTTNotificationService(client mqttPublisher, topic string, logger *zap.Logger) *MQTTNotificationService {
	return &MQTTNotificationService{client: client, topic: topic, logger: logger}
}

func (s *MQTTNotificationService) PublishStreak(ctx context.Context, report models.StreakReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode streak report: %w", err)
	}

	token := s.client.Publish(s.topic, 1, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return errors.New("publish streak: timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish streak to %s: %w", s.topic, err)
	}
	s.logger.Debug("Published streak", zap.String("topic", s.topic), zap.Bool("active", report.Active))
	return nil
}

func (s *MQTTNotificationService) Connected() bool {
	return s.client.IsConnectionOpen()
}

func (s *MQTTNotificationService) Close() {
	s.client.Disconnect(250)
}
