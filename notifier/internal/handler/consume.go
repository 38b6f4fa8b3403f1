package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/IBM/sarama"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Sender interface {
	SendMessage(ctx context.Context, text string) error
}

// Consumer forwards every notification from the topic to the chat.
type Consumer struct {
	sender      Sender
	sendTimeout time.Duration
	log         *zap.Logger
}

func NewConsumer(sender Sender, sendTimeout time.Duration, log *zap.Logger) *Consumer {
	return &Consumer{
		sender:      sender,
		sendTimeout: sendTimeout,
		log:         log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var n kafka.Notification
			if err := json.Unmarshal(message.Value, &n); err != nil {
				consumer.log.Error("malformed notification", zap.Error(err), zap.Int64("offset", message.Offset))
				session.MarkMessage(message, "")
				continue
			}

			// Delivery is best effort: a failed send is logged and the offset still advances.
			if err := consumer.send(session.Context(), n.Text); err != nil {
				consumer.log.Error("sender.SendMessage", zap.String("id", n.ID), zap.String("kind", n.Kind), zap.Error(err))
			} else {
				consumer.log.Debug("notification delivered", zap.String("id", n.ID), zap.String("kind", n.Kind),
					zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) send(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, consumer.sendTimeout)
	defer cancel()
	return consumer.sender.SendMessage(ctx, text)
}
