//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"trsync/internal/platform/kafka/producer"
	"trsync/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	prod, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

// Produce returns only after the broker acknowledged the record.
func (s *ProducerIntegrationSuite) TestProduceDeliversKeyValueAndHeaders() {
	ctx := context.Background()
	topic := "produce-sync"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1))

	err := s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("teacher-1"),
		Value: []byte(`{"operation":"create"}`),
		Headers: map[string]string{
			"event_type": "teacher.synchronized",
			"request_id": "req-1",
		},
	})
	s.Require().NoError(err)

	record, err := s.kafka.ConsumeOne(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "teacher-1"
	})
	s.Require().NoError(err)
	s.Require().NotNil(record)
	s.JSONEq(`{"operation":"create"}`, string(record.Value))

	headers := make(map[string]string)
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	s.Equal("teacher.synchronized", headers["event_type"])
	s.Equal("req-1", headers["request_id"])
}

func (s *ProducerIntegrationSuite) TestProduceToNewTopicAutoCreates() {
	ctx := context.Background()
	topic := "auto-create-" + time.Now().Format("20060102150405")

	s.Require().NoError(s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("auto"),
		Value: []byte("value"),
	}))

	record, err := s.kafka.ConsumeOne(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "auto"
	})
	s.Require().NoError(err)
	s.NotNil(record)
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}

func (s *ProducerIntegrationSuite) TestClosedProducerRejectsMessages() {
	prod, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	s.Require().NoError(prod.Close())

	err = prod.Produce(context.Background(), &producer.Message{Topic: "closed", Value: []byte("x")})
	s.ErrorContains(err, "producer is closed")
	s.Error(prod.Health(context.Background()))
}
