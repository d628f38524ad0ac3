package kafka

import (
	"Devflow/internal/api/config"
	"Devflow/internal/model"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Publisher 互动事件流
type Publisher interface {
	PublishInteraction(ctx context.Context, interaction *model.Interaction) error
	Close() error
}

// InteractionEvent 写入 Kafka 的消息体
type InteractionEvent struct {
	ID        string   `json:"id"`
	User      string   `json:"user"`
	Action    string   `json:"action"`
	Question  string   `json:"question,omitempty"`
	Answer    string   `json:"answer,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"created_at"`
}

// NewInteractionEvent 将互动记录转换为消息体
func NewInteractionEvent(i *model.Interaction) *InteractionEvent {
	evt := &InteractionEvent{
		ID:        i.ID.Hex(),
		User:      i.User.Hex(),
		Action:    string(i.Action),
		Tags:      make([]string, 0, len(i.Tags)),
		CreatedAt: i.CreatedAt.UnixMilli(),
	}
	if i.Question != nil {
		evt.Question = i.Question.Hex()
	}
	if i.Answer != nil {
		evt.Answer = i.Answer.Hex()
	}
	for _, t := range i.Tags {
		evt.Tags = append(evt.Tags, t.Hex())
	}
	return evt
}

type saramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher 未配置 broker 时返回空实现
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("Kafka brokers not configured, interaction stream disabled")
		return NopPublisher{}, nil
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	log.Info("Kafka producer initialized successfully", "topic", cfg.InteractionTopic)
	return NewPublisherWithProducer(producer, cfg.InteractionTopic), nil
}

// NewPublisherWithProducer 使用外部构造的 producer，便于测试注入 mock
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) Publisher {
	return &saramaPublisher{producer: producer, topic: topic}
}

func (p *saramaPublisher) PublishInteraction(ctx context.Context, interaction *model.Interaction) error {
	body, err := json.Marshal(NewInteractionEvent(interaction))
	if err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(interaction.User.Hex()),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "interaction published", "partition", partition, "offset", offset, "action", interaction.Action)
	return nil
}

func (p *saramaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) PublishInteraction(context.Context, *model.Interaction) error { return nil }
func (NopPublisher) Close() error                                                 { return nil }
