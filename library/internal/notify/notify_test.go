package notify

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/library/internal/metrics"
	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafka_Notify(t *testing.T) {
	t.Parallel()
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != kafka.NotificationTopic {
			return errors.Errorf("unexpected topic %s", msg.Topic)
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var n kafka.Notification
		if err := json.Unmarshal(value, &n); err != nil {
			return err
		}
		if n.Kind != "borrowing_created" || n.Text != "New borrowing" || n.ID == "" {
			return errors.Errorf("unexpected notification %+v", n)
		}
		return nil
	})

	k := NewKafka(producer, zap.NewNop())
	k.Notify(context.Background(), "borrowing_created", "New borrowing")
	require.NoError(t, k.Close())
}

func TestKafka_NotifyProduceError(t *testing.T) {
	t.Parallel()
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	k := NewKafka(producer, zap.NewNop())
	k.Notify(context.Background(), "payment_paid", "Payment successful")
	require.NoError(t, k.Close())
}

// stalledProducer never takes messages off its input, like a producer
// whose buffers are full while the broker is unreachable.
type stalledProducer struct {
	sarama.AsyncProducer
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newStalledProducer() *stalledProducer {
	return &stalledProducer{
		input:  make(chan *sarama.ProducerMessage),
		errors: make(chan *sarama.ProducerError),
	}
}

func (p *stalledProducer) Input() chan<- *sarama.ProducerMessage { return p.input }

func (p *stalledProducer) Errors() <-chan *sarama.ProducerError { return p.errors }

func (p *stalledProducer) Close() error {
	close(p.errors)
	return nil
}

func TestKafka_NotifyDoesNotBlockOnFullInput(t *testing.T) {
	t.Parallel()
	k := NewKafka(newStalledProducer(), zap.NewNop())
	k.enqueueTimeout = 10 * time.Millisecond
	dropped := metrics.NotificationsTotal.WithLabelValues(SinkKafka, metrics.OutcomeError)
	before := testutil.ToFloat64(dropped)

	reqCtx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		k.Notify(context.WithoutCancel(reqCtx), "borrowing_created", "New borrowing")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a stalled producer")
	}
	require.GreaterOrEqual(t, testutil.ToFloat64(dropped), before+1)
	require.NoError(t, k.Close())
}

type fakeSender struct {
	sent chan string
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, text string) error {
	f.sent <- text
	return f.err
}

func TestTelegram_Notify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
	}{
		{name: "ok"},
		{name: "send error", err: errors.New("telegram: 400 Bad Request")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &fakeSender{sent: make(chan string, 1), err: tt.err}
			n := NewTelegram(s, time.Second, zap.NewNop())

			n.Notify(context.Background(), "overdue", "No borrowings overdue today")

			select {
			case text := <-s.sent:
				require.Equal(t, "No borrowings overdue today", text)
			case <-time.After(time.Second):
				t.Fatal("message was not sent")
			}
		})
	}
}

func TestLog_Notify(t *testing.T) {
	t.Parallel()
	NewLog(zap.NewExample()).Notify(context.Background(), "overdue", "No borrowings overdue today")
}
