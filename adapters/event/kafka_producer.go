package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	TopicPortfolioEvents = "portfolio.events"
	TopicMediaEvents     = "media.events"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	PortfolioEventsWriter messageWriter
	MediaEventsWriter     messageWriter
	logger                logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'portfolio.events'
	portfolioWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicPortfolioEvents,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	// writer 'media.events'
	mediaWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicMediaEvents,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		PortfolioEventsWriter: portfolioWriter,
		MediaEventsWriter:     mediaWriter,
		logger:                log,
	}, nil
}

// NewPublisher returns the Kafka producer when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(cfg config.Config, log logger.Logger) (service.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("Kafka brokers not configured, content events are disabled")
		return service.NopPublisher{}, func() {}, nil
	}
	client, err := NewKafkaProducerClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, evt service.PortfolioEvent) error {
	return c.publish(ctx, c.PortfolioEventsWriter, evt.Section, evt)
}

func (c *KafkaProducerClient) PublishMediaEvent(ctx context.Context, evt service.MediaEvent) error {
	return c.publish(ctx, c.MediaEventsWriter, evt.Key, evt)
}

func (c *KafkaProducerClient) publish(ctx context.Context, w messageWriter, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		c.PortfolioEventsWriter.Close()
	}
	if c.MediaEventsWriter != nil {
		c.MediaEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}
