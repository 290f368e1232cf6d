package events

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	w := &recordingWriter{}
	p := newKafkaPublisher(w, zerolog.Nop())

	bizID := uint(11)
	evt := New(TypeSubmissionApproved, 42)
	evt.BusinessID = &bizID
	evt.Name = "Sushi Central"

	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, TypeSubmissionApproved, string(msg.Headers[0].Value))

	decoded, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, decoded.ID)
	assert.Equal(t, uint(42), decoded.SubmissionID)
	require.NotNil(t, decoded.BusinessID)
	assert.Equal(t, bizID, *decoded.BusinessID)
}

func TestKafkaPublisherWrapsWriterError(t *testing.T) {
	p := newKafkaPublisher(&recordingWriter{err: errors.New("broker down")}, zerolog.Nop())

	err := p.Publish(context.Background(), New(TypeSubmissionCreated, 1))
	assert.ErrorContains(t, err, "publish submission.created")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(kafka.Message{Value: []byte("{not json"), Offset: 3})
	assert.ErrorContains(t, err, "offset 3")
}
