package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"drivethru-server/shared/interfaces"
	"drivethru-server/shared/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishAttempts = 3
	publishTimeout  = 10 * time.Second
	appID           = "drivethru-server"
)

// amqpChannel - часть *amqp.Channel, нужная паблишеру.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var _ interfaces.ScoreEventPublisher = (*RabbitMQScoreEventPublisher)(nil)

// RabbitMQScoreEventPublisher публикует ScoreEvent в durable-очередь через default exchange.
type RabbitMQScoreEventPublisher struct {
	channel   amqpChannel
	queueName string
	logger    *zap.Logger
	backoff   time.Duration
}

// NewRabbitMQScoreEventPublisher открывает канал и объявляет очередь событий.
func NewRabbitMQScoreEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (*RabbitMQScoreEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("score event publisher: не удалось открыть канал: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("score event publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	logger.Info("Score event queue declared", zap.String("queue", queueName))
	return newScoreEventPublisher(ch, queueName, logger), nil
}

func newScoreEventPublisher(ch amqpChannel, queueName string, logger *zap.Logger) *RabbitMQScoreEventPublisher {
	return &RabbitMQScoreEventPublisher{
		channel:   ch,
		queueName: queueName,
		logger:    logger.Named("ScoreEventPublisher"),
		backoff:   100 * time.Millisecond,
	}
}

// PublishScoreEvent сериализует событие в JSON и публикует его, повторяя попытку до трёх раз.
func (p *RabbitMQScoreEventPublisher) PublishScoreEvent(ctx context.Context, event models.ScoreEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка маршалинга ScoreEvent: %w", err)
	}
	return p.publishMessage(ctx, string(event.Type), body)
}

// Close закрывает канал.
func (p *RabbitMQScoreEventPublisher) Close() error {
	if p.channel == nil {
		return nil
	}
	return p.channel.Close()
}

func (p *RabbitMQScoreEventPublisher) publishMessage(ctx context.Context, msgType string, body []byte) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // default exchange
			p.queueName, // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         msgType,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        appID,
			},
		)
		if err == nil {
			p.logger.Debug("Score event published", zap.String("queue", p.queueName), zap.String("type", msgType), zap.Int("attempt", attempt))
			return nil
		}
		p.logger.Warn("Score event publish attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < publishAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("ошибка публикации в очередь %s: %w", p.queueName, ctx.Err())
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}
	}
	return fmt.Errorf("ошибка публикации в очередь %s после retries: %w", p.queueName, err)
}
