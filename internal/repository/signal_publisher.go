package repository

import (
	"context"
	"errors"
	"fmt"

	"FinSignal/internal/domain/models"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
)

type batchProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaSignalPublisher writes emitted signals and attention flags as JSON,
// keyed by instrument so a consumer sees one instrument's updates in order.
type KafkaSignalPublisher struct {
	producer       batchProducer
	signalsTopic   string
	attentionTopic string
}

// NewKafkaSignalPublisher creates Kafka publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, signalsTopic, attentionTopic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, signalsTopic: signalsTopic, attentionTopic: attentionTopic}
}

func (p *KafkaSignalPublisher) PublishSignals(ctx context.Context, signals []models.AggregatedSignal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i, s := range signals {
		msgs[i] = pkgkafka.Message{
			Key:     []byte(s.Instrument),
			Value:   s,
			Headers: map[string]string{"kind": "signal", "action": string(s.Action)},
		}
	}
	if err := p.producer.PublishBatch(ctx, p.signalsTopic, msgs); err != nil {
		return fmt.Errorf("publish signals: %w", err)
	}
	return nil
}

func (p *KafkaSignalPublisher) PublishAttention(ctx context.Context, flags []models.AttentionFlag) error {
	if len(flags) == 0 {
		return nil
	}
	if p.attentionTopic == "" {
		return errors.New("publish attention: no topic configured")
	}
	msgs := make([]pkgkafka.Message, len(flags))
	for i, f := range flags {
		msgs[i] = pkgkafka.Message{
			Key:     []byte(f.Position.Instrument),
			Value:   f,
			Headers: map[string]string{"kind": "attention", "reason": string(f.Reason)},
		}
	}
	if err := p.producer.PublishBatch(ctx, p.attentionTopic, msgs); err != nil {
		return fmt.Errorf("publish attention: %w", err)
	}
	return nil
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// LogSignalPublisher writes signals to the log. Used when Kafka is disabled.
type LogSignalPublisher struct {
	l *applogger.Logger
}

func NewLogSignalPublisher(l *applogger.Logger) *LogSignalPublisher {
	return &LogSignalPublisher{l: l}
}

func (p *LogSignalPublisher) PublishSignals(_ context.Context, signals []models.AggregatedSignal) error {
	for _, s := range signals {
		p.l.Info("signal",
			applogger.String("id", s.ID),
			applogger.String("instrument", s.Instrument),
			applogger.String("action", string(s.Action)),
			applogger.String("confidence", string(s.Confidence)),
			applogger.Float64("total_score", s.TotalScore),
			applogger.Float64("entry", s.EntryPrice),
			applogger.Float64("target", s.TargetPrice),
			applogger.Float64("stop", s.StopLoss),
			applogger.Bool("fully_agreed", s.FullyAgreed),
			applogger.Any("reasoning", s.Reasoning),
		)
	}
	return nil
}

func (p *LogSignalPublisher) PublishAttention(_ context.Context, flags []models.AttentionFlag) error {
	for _, f := range flags {
		p.l.Warn("position needs attention",
			applogger.String("instrument", f.Position.Instrument),
			applogger.String("side", string(f.Position.Side)),
			applogger.String("reason", string(f.Reason)),
			applogger.String("detail", f.Detail),
		)
	}
	return nil
}

func (p *LogSignalPublisher) Close() error { return nil }
