package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	written  []kafkago.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(t *testing.T) (*Producer, map[string]*fakeWriter) {
	t.Helper()
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	fakes := make(map[string]*fakeWriter)
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{}
		fakes[topic] = w
		return w
	}
	return p, fakes
}

func TestProducer_PublishCarriesKeyAndHeaders(t *testing.T) {
	p, fakes := newTestProducer(t)

	err := p.Publish(context.Background(), "fraud.events", Message{
		Key:     []byte("Acme"),
		Value:   []byte(`{"risk":90}`),
		Headers: map[string]string{"event_type": "fraud.alert.raised"},
	})
	require.NoError(t, err)

	w := fakes["fraud.events"]
	require.NotNil(t, w)
	require.Len(t, w.written, 1)
	assert.Equal(t, "Acme", string(w.written[0].Key))
	assert.Equal(t, `{"risk":90}`, string(w.written[0].Value))
	require.Len(t, w.written[0].Headers, 1)
	assert.Equal(t, "event_type", w.written[0].Headers[0].Key)
	assert.Equal(t, "fraud.alert.raised", string(w.written[0].Headers[0].Value))
}

func TestProducer_ReusesWriterPerTopic(t *testing.T) {
	p, fakes := newTestProducer(t)

	require.NoError(t, p.Publish(context.Background(), "a", Message{Value: []byte("1")}))
	require.NoError(t, p.Publish(context.Background(), "a", Message{Value: []byte("2")}))
	require.NoError(t, p.Publish(context.Background(), "b", Message{Value: []byte("3")}))

	assert.Len(t, fakes, 2)
	assert.Len(t, fakes["a"].written, 2)

	require.NoError(t, p.Close())
	assert.True(t, fakes["a"].closed)
	assert.True(t, fakes["b"].closed)
}

func TestProducer_EmptyPublishIsNoop(t *testing.T) {
	p, fakes := newTestProducer(t)

	require.NoError(t, p.Publish(context.Background(), "a"))
	assert.Empty(t, fakes)
}

func TestProducer_WrapsWriteError(t *testing.T) {
	p, _ := newTestProducer(t)
	boom := errors.New("leader not available")
	p.newWriter = func(string) messageWriter { return &fakeWriter{writeErr: boom} }

	err := p.Publish(context.Background(), "fraud.events", Message{Value: []byte("x")})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "kafka publish to fraud.events")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "no brokers", cfg: Config{}, wantErr: "at least one broker"},
		{name: "plain", cfg: Config{Brokers: []string{"k:9092"}, SASLEnabled: true, SASLUsername: "u", SASLPassword: "p"}},
		{name: "scram", cfg: Config{Brokers: []string{"k:9092"}, SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}},
		{name: "unknown mechanism", cfg: Config{Brokers: []string{"k:9092"}, SASLEnabled: true, SASLMechanism: "GSSAPI"}, wantErr: "unsupported SASL mechanism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_TransportTLS(t *testing.T) {
	tr, err := Config{Brokers: []string{"k:9092"}, TLS: true, ClientID: "fraudd"}.transport()
	require.NoError(t, err)
	require.NotNil(t, tr.TLS)
	assert.Equal(t, "fraudd", tr.ClientID)
	assert.Nil(t, tr.SASL)
}
