package kafka

import (
	"Devflow/internal/api/config"
	"Devflow/internal/model"
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPublishInteraction(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	qid := primitive.NewObjectID()
	tag := primitive.NewObjectID()
	interaction := &model.Interaction{
		ID:        primitive.NewObjectID(),
		User:      primitive.NewObjectID(),
		Action:    model.ActionView,
		Question:  &qid,
		Tags:      []primitive.ObjectID{tag},
		CreatedAt: time.Now(),
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "devflow.interactions", msg.Topic)
		raw, err := msg.Value.Encode()
		require.NoError(t, err)
		var evt InteractionEvent
		require.NoError(t, json.Unmarshal(raw, &evt))
		assert.Equal(t, "view", evt.Action)
		assert.Equal(t, qid.Hex(), evt.Question)
		assert.Empty(t, evt.Answer)
		assert.Equal(t, []string{tag.Hex()}, evt.Tags)
		return nil
	})

	pub := NewPublisherWithProducer(producer, "devflow.interactions")
	require.NoError(t, pub.PublishInteraction(context.Background(), interaction))
	require.NoError(t, pub.Close())
}

func TestNewPublisherWithoutBrokers(t *testing.T) {
	pub, err := NewPublisher(configWithoutBrokers())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)
	assert.NoError(t, pub.PublishInteraction(context.Background(), &model.Interaction{}))
}

func configWithoutBrokers() config.KafkaConfig {
	return config.KafkaConfig{InteractionTopic: "devflow.interactions"}
}
