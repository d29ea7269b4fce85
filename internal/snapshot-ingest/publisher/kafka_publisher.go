package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedkafka "github.com/radieske/wicketick/internal/shared/kafka"
	"github.com/radieske/wicketick/internal/wicketick"
	"github.com/radieske/wicketick/pkg/contracts/events"
)

// messageWriter é o subconjunto do kafka.Writer usado aqui
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher encapsula o writer Kafka e o logger.
// Implementa ticker.Sink: cada snapshot do poller vira um events.SnapshotUpdate.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *zap.Logger
	now    func() time.Time
}

// NewKafkaPublisher cria um publisher para o tópico de snapshots.
func NewKafkaPublisher(brokers string, topic string, log *zap.Logger) (*KafkaPublisher, error) {
	if len(sharedkafka.Brokers(brokers)) == 0 {
		return nil, fmt.Errorf("kafka brokers not provided")
	}
	return &KafkaPublisher{
		writer: sharedkafka.NewWriter(brokers, topic),
		topic:  topic,
		log:    log,
		now:    time.Now,
	}, nil
}

// EnsureTopic cria o tópico via controller do cluster. Só faz sentido em
// ambiente local/dev, com um broker.
func EnsureTopic(ctx context.Context, brokers string, topic string, log *zap.Logger) error {
	list := sharedkafka.Brokers(brokers)
	if len(list) == 0 {
		return fmt.Errorf("kafka brokers not provided")
	}

	// Conexão com o primeiro broker para obter o controller.
	conn, err := kafka.DialContext(ctx, "tcp", list[0])
	if err != nil {
		return fmt.Errorf("connect to kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get kafka controller: %w", err)
	}

	controllerAddr := fmt.Sprintf("%s:%d", controller.Host, controller.Port)
	cconn, err := kafka.DialContext(ctx, "tcp", controllerAddr)
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer cconn.Close()

	// particionamento e fator de replicação compatíveis com single-broker
	cfg := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}
	if err := cconn.CreateTopics(cfg); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	log.Info("kafka topic created", zap.String("topic", topic))
	return nil
}

// PublishSnapshot serializa o update em JSON. A chave é o MatchID, então
// todos os snapshots de uma partida caem na mesma partição, em ordem.
// Só sources remote são publicados: local não tem MatchID roteável e relay
// já é o próprio cache.
func (p *KafkaPublisher) PublishSnapshot(ctx context.Context, pollerID string, src wicketick.Source, version int64, snap wicketick.Snapshot) error {
	if src.Kind != wicketick.SourceRemote {
		p.log.Debug("snapshot not published", zap.String("source", src.Key()))
		return nil
	}
	ev := events.SnapshotUpdate{
		SourceKey:   src.Key(),
		MatchID:     src.Identifier(),
		Version:     version,
		PublishedAt: p.now(),
		Producer:    pollerID,
		Snapshot:    snap,
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(ev.MatchID),
		Value: value,
		Time:  ev.PublishedAt,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(src.Kind.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("failed to publish snapshot", zap.String("topic", p.topic), zap.Error(err))
		return fmt.Errorf("publish snapshot %s: %w", ev.SourceKey, err)
	}

	p.log.Debug("published snapshot", zap.String("match_id", ev.MatchID), zap.Int64("version", version))
	return nil
}

// Close finaliza o writer e libera recursos associados.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
