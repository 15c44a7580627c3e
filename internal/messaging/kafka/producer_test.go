package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/hypecard-server/internal/model"
)

func TestProducer_Publish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "hypecard.events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return errors.New("unexpected key " + string(key))
		}

		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got struct {
			Type      string         `json:"type"`
			Timestamp time.Time      `json:"timestamp"`
			Payload   map[string]any `json:"payload"`
		}
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.Type != model.EventVideoCreated || !got.Timestamp.Equal(fixed) || got.Payload["status"] != "processing" {
			return errors.New("unexpected message body " + string(raw))
		}
		return nil
	})

	p := NewProducerWith(sp, "hypecard.events")
	p.now = func() time.Time { return fixed }

	err := p.Publish(context.Background(), model.Event{
		Type:    model.EventVideoCreated,
		Key:     "42",
		Payload: map[string]any{"status": "processing"},
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducer_PublishError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducerWith(sp, "hypecard.events")
	err := p.Publish(context.Background(), model.Event{Type: model.EventVideoDeleted})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Contains(t, err.Error(), "video.deleted")
	require.NoError(t, p.Close())
}

func TestProducer_PublishUnencodablePayload(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)

	p := NewProducerWith(sp, "hypecard.events")
	err := p.Publish(context.Background(), model.Event{Type: "x", Payload: make(chan int)})
	assert.Error(t, err)
	require.NoError(t, p.Close())
}

func TestNoop_Publish(t *testing.T) {
	assert.NoError(t, Noop{}.Publish(context.Background(), model.Event{Type: "x"}))
}
