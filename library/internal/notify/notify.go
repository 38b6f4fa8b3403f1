// Package notify delivers lifecycle notifications. Every sink is
// fire-and-forget: Notify never blocks on delivery or reports failures.
package notify

import (
	"context"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/metrics"
	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/IBM/sarama"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	SinkKafka    = "kafka"
	SinkTelegram = "telegram"
	SinkLog      = "log"
)

// defaultEnqueueTimeout bounds how long Notify waits for room in the
// producer input when the broker is slow or unreachable.
const defaultEnqueueTimeout = time.Second

type Kafka struct {
	producer       sarama.AsyncProducer
	topic          string
	enqueueTimeout time.Duration
	log            *zap.Logger
	done           chan struct{}
}

func NewKafka(producer sarama.AsyncProducer, log *zap.Logger) *Kafka {
	k := &Kafka{
		producer:       producer,
		topic:          kafka.NotificationTopic,
		enqueueTimeout: defaultEnqueueTimeout,
		log:            log.Named("notify"),
		done:           make(chan struct{}),
	}
	go k.drainErrors()
	return k
}

func (k *Kafka) Notify(ctx context.Context, kind, text string) {
	value, err := json.Marshal(kafka.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		k.log.Error("marshal notification", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(kind),
		Value: sarama.ByteEncoder(value),
	}
	timer := time.NewTimer(k.enqueueTimeout)
	defer timer.Stop()

	select {
	case k.producer.Input() <- msg:
		metrics.NotificationsTotal.WithLabelValues(SinkKafka, metrics.OutcomeOK).Inc()
	case <-ctx.Done():
		k.drop(kind, ctx.Err())
	case <-timer.C:
		k.drop(kind, errors.New("producer input is full"))
	}
}

func (k *Kafka) drop(kind string, err error) {
	metrics.NotificationsTotal.WithLabelValues(SinkKafka, metrics.OutcomeError).Inc()
	k.log.Warn("notification dropped", zap.String("kind", kind), zap.Error(err))
}

func (k *Kafka) drainErrors() {
	defer close(k.done)
	for perr := range k.producer.Errors() {
		metrics.NotificationsTotal.WithLabelValues(SinkKafka, metrics.OutcomeError).Inc()
		k.log.Error("produce notification", zap.Error(perr.Err))
	}
}

// Close flushes buffered messages and waits for the error drain to finish.
func (k *Kafka) Close() error {
	err := k.producer.Close()
	<-k.done
	return err
}

type sender interface {
	SendMessage(ctx context.Context, text string) error
}

type Telegram struct {
	client  sender
	timeout time.Duration
	log     *zap.Logger
}

func NewTelegram(client sender, timeout time.Duration, log *zap.Logger) *Telegram {
	return &Telegram{
		client:  client,
		timeout: timeout,
		log:     log.Named("notify"),
	}
}

func (t *Telegram) Notify(_ context.Context, kind, text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.client.SendMessage(ctx, text); err != nil {
			metrics.NotificationsTotal.WithLabelValues(SinkTelegram, metrics.OutcomeError).Inc()
			t.log.Warn("telegram notification", zap.String("kind", kind), zap.Error(err))
			return
		}
		metrics.NotificationsTotal.WithLabelValues(SinkTelegram, metrics.OutcomeOK).Inc()
	}()
}

type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("notify")}
}

func (l *Log) Notify(_ context.Context, kind, text string) {
	metrics.NotificationsTotal.WithLabelValues(SinkLog, metrics.OutcomeOK).Inc()
	l.log.Info(text, zap.String("kind", kind))
}
