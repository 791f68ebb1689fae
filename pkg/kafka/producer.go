// Package kafka carries interaction records between the marketplace API and
// the analytics service over a sarama producer and consumer group.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

var compressionCodecs = map[string]sarama.CompressionCodec{
	"":       sarama.CompressionNone,
	"none":   sarama.CompressionNone,
	"gzip":   sarama.CompressionGZIP,
	"snappy": sarama.CompressionSnappy,
	"lz4":    sarama.CompressionLZ4,
	"zstd":   sarama.CompressionZSTD,
}

type ProducerConfig struct {
	Brokers  []string
	Topic    string
	ClientID string

	Retries          int
	Timeout          time.Duration
	RequiredAcks     int
	Compression      string
	IdempotentWrites bool
	MaxMessageBytes  int
}

// saramaConfig rejects unknown compression codecs. Idempotent writes force
// acks from all in-sync replicas and a single in-flight request.
func (cfg ProducerConfig) saramaConfig() (*sarama.Config, error) {
	codec, ok := compressionCodecs[cfg.Compression]
	if !ok {
		return nil, fmt.Errorf("unsupported compression %q", cfg.Compression)
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V3_3_0_0
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}

	sc.Producer.Return.Successes = true
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.Producer.Compression = codec
	sc.Producer.Timeout = cfg.Timeout
	sc.Producer.Retry.Max = cfg.Retries
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.RequiredAcks)
	if cfg.MaxMessageBytes > 0 {
		sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}

	if cfg.IdempotentWrites {
		sc.Producer.Idempotent = true
		sc.Producer.RequiredAcks = sarama.WaitForAll
		sc.Producer.Retry.Max = max(cfg.Retries, 5)
		sc.Net.MaxOpenRequests = 1
	}

	return sc, nil
}

type Producer struct {
	producer sarama.SyncProducer
	topic    string
	clientID string
	logger   *zap.Logger
}

func NewProducer(cfg ProducerConfig, logger *zap.Logger) (*Producer, error) {
	sc, err := cfg.saramaConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid producer config: %w", err)
	}

	sp, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
		zap.String("compression", sc.Producer.Compression.String()),
		zap.Bool("idempotent", cfg.IdempotentWrites),
	)

	p := NewProducerWithClient(sp, cfg.Topic, logger)
	p.clientID = sc.ClientID
	return p, nil
}

// NewProducerWithClient wraps an existing sarama producer.
func NewProducerWithClient(sp sarama.SyncProducer, topic string, logger *zap.Logger) *Producer {
	return &Producer{producer: sp, topic: topic, logger: logger}
}

// SendMessage publishes value as JSON. Records sharing a key keep their
// relative order on one partition.
func (p *Producer) SendMessage(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: time.Now().UTC(),
		Headers:   p.headers(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Error("Failed to send message to Kafka",
			zap.Error(err),
			zap.String("topic", p.topic),
			zap.String("key", key),
		)
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Debug("Message sent to Kafka",
		zap.String("key", key),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

func (p *Producer) headers() []sarama.RecordHeader {
	h := []sarama.RecordHeader{{Key: []byte("content-type"), Value: []byte(contentTypeJSON)}}
	if p.clientID != "" {
		h = append(h, sarama.RecordHeader{Key: []byte("producer"), Value: []byte(p.clientID)})
	}
	return h
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka producer", zap.Error(err))
		return fmt.Errorf("failed to close producer: %w", err)
	}
	p.logger.Info("Kafka producer closed")
	return nil
}
