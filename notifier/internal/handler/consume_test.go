package handler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/IBM/sarama"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx context.Context

	mu     sync.Mutex
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

type fakeSender struct {
	texts []string
	err   error
}

func (f *fakeSender) SendMessage(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func message(t *testing.T, offset int64, n kafka.Notification) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(n)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: kafka.NotificationTopic, Offset: offset, Value: value}
}

func TestConsumer_ConsumeClaim(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		sendErr    error
		messages   func(t *testing.T) []*sarama.ConsumerMessage
		wantTexts  []string
		wantMarked []int64
	}{
		{
			name: "delivers",
			messages: func(t *testing.T) []*sarama.ConsumerMessage {
				return []*sarama.ConsumerMessage{
					message(t, 1, kafka.Notification{ID: "a", Kind: "borrowing_created", Text: "*Borrowing has been created.*"}),
					message(t, 2, kafka.Notification{ID: "b", Kind: "payment_paid", Text: "*Payment Successful.*"}),
				}
			},
			wantTexts:  []string{"*Borrowing has been created.*", "*Payment Successful.*"},
			wantMarked: []int64{1, 2},
		},
		{
			name: "skips malformed",
			messages: func(t *testing.T) []*sarama.ConsumerMessage {
				return []*sarama.ConsumerMessage{
					{Offset: 1, Value: []byte("{not json")},
					message(t, 2, kafka.Notification{ID: "b", Text: "ok"}),
				}
			},
			wantTexts:  []string{"ok"},
			wantMarked: []int64{1, 2},
		},
		{
			name:    "send failure still advances",
			sendErr: errors.New("telegram: 400 Bad Request"),
			messages: func(t *testing.T) []*sarama.ConsumerMessage {
				return []*sarama.ConsumerMessage{message(t, 5, kafka.Notification{ID: "c", Text: "lost"})}
			},
			wantTexts:  []string{"lost"},
			wantMarked: []int64{5},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sender := &fakeSender{err: tt.sendErr}
			consumer := NewConsumer(sender, time.Second, zap.NewNop())

			msgs := tt.messages(t)
			claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(msgs))}
			for _, m := range msgs {
				claim.messages <- m
			}
			close(claim.messages)
			session := &fakeSession{ctx: context.Background()}

			require.NoError(t, consumer.ConsumeClaim(session, claim))
			require.Equal(t, tt.wantTexts, sender.texts)
			require.Equal(t, tt.wantMarked, session.marked)
		})
	}
}

func TestConsumer_stopsOnSessionEnd(t *testing.T) {
	t.Parallel()
	consumer := NewConsumer(&fakeSender{}, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}
	require.NoError(t, consumer.ConsumeClaim(&fakeSession{ctx: ctx}, claim))
}
