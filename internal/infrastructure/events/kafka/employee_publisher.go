package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/riskibarqy/hr-admin/internal/domain/employee"
	"github.com/riskibarqy/hr-admin/internal/platform/logging"
)

const eventEmployeeOnboarded = "employee.onboarded"

type Config struct {
	Brokers  []string
	Topic    string
	Source   string
	ClientID string
}

// NewSyncProducer builds an idempotent producer that waits for all replicas.
func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}

	sCfg := sarama.NewConfig()
	sCfg.Version = sarama.V3_3_2_0
	sCfg.ClientID = cfg.ClientID
	sCfg.Producer.Return.Successes = true
	sCfg.Producer.RequiredAcks = sarama.WaitForAll
	sCfg.Producer.Idempotent = true
	sCfg.Net.MaxOpenRequests = 1
	sCfg.Producer.Retry.Max = 5
	sCfg.Producer.Retry.Backoff = 200 * time.Millisecond

	sp, err := sarama.NewSyncProducer(cfg.Brokers, sCfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return sp, nil
}

type onboardedPayload struct {
	EventID    string    `json:"eventId"`
	EmployeeID string    `json:"employeeId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Username   string    `json:"username"`
	WorkEmail  string    `json:"workEmail"`
	JobType    string    `json:"jobType"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EmployeePublisher emits employee lifecycle events keyed by employee id.
type EmployeePublisher struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	logger *logging.Logger
}

func NewEmployeePublisher(sp sarama.SyncProducer, cfg Config, logger *logging.Logger) *EmployeePublisher {
	if logger == nil {
		logger = logging.Default()
	}
	source := strings.TrimSpace(cfg.Source)
	if source == "" {
		source = "hr-admin"
	}
	return &EmployeePublisher{
		sp:     sp,
		topic:  cfg.Topic,
		source: source,
		logger: logger.With("component", "kafka_employee_publisher"),
	}
}

func (p *EmployeePublisher) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

func (p *EmployeePublisher) PublishOnboarded(ctx context.Context, item employee.Employee) error {
	payload := onboardedPayload{
		EventID:    uuid.NewString(),
		EmployeeID: item.ID,
		FirstName:  item.FirstName,
		LastName:   item.LastName,
		Username:   item.Username,
		WorkEmail:  item.WorkEmail,
		JobType:    item.JobType,
		OccurredAt: item.CreatedAt,
	}
	if item.ProfileImage != nil {
		payload.ImageURL = item.ProfileImage.URL
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal onboarded payload: %w", err)
	}

	return p.send(ctx, item.ID, body, map[string]string{
		"event-kind":   eventEmployeeOnboarded,
		"event-id":     payload.EventID,
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *EmployeePublisher) send(ctx context.Context, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	hs := make([]sarama.RecordHeader, 0, len(headers))
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	partition, offset, err := p.sp.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send kafka message",
			"topic", p.topic,
			"key", key,
			"bytes", len(value),
			"error", err,
		)
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.logger.InfoContext(ctx, "kafka message sent",
		"topic", p.topic,
		"key", key,
		"partition", partition,
		"offset", offset,
	)
	return nil
}
