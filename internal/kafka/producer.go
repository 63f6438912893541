package kafka

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/events"

	"github.com/IBM/sarama"
)

// Producer publishes change events to a Kafka topic, keyed by collection.
// Publish only enqueues; delivery errors are logged from a background goroutine.
type Producer struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
}

// NewProducer wraps an existing AsyncProducer and starts draining its errors.
func NewProducer(p sarama.AsyncProducer, topic string) *Producer {
	prod := &Producer{producer: p, topic: topic}
	prod.wg.Add(1)
	go func() {
		defer prod.wg.Done()
		for perr := range p.Errors() {
			log.Printf("kafka: deliver to %s: %v", perr.Msg.Topic, perr.Err)
		}
	}()
	return prod
}

// Dial connects to the brokers, retrying a few times while the cluster comes up.
func Dial(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = false
	config.Producer.Return.Errors = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	var (
		p   sarama.AsyncProducer
		err error
	)
	for i := 1; i <= 5; i++ {
		p, err = sarama.NewAsyncProducer(brokers, config)
		if err == nil {
			log.Printf("Kafka producer connected to %v (topic %s)", brokers, topic)
			return NewProducer(p, topic), nil
		}
		log.Printf("Failed to connect to Kafka (try %d/5): %v", i, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("connect kafka: %w", err)
}

// Publish implements events.Publisher. When the producer's input queue is full
// the event is dropped and logged rather than holding up the request.
func (p *Producer) Publish(_ context.Context, evt events.Event) {
	value, err := evt.Marshal()
	if err != nil {
		log.Printf("kafka: encode %s event: %v", evt.Type, err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.Collection),
		Value: sarama.ByteEncoder(value),
	}
	select {
	case p.producer.Input() <- msg:
	default:
		log.Printf("kafka: queue full, dropped %s event", evt.Type)
	}
}

// Close flushes pending messages and waits until every delivery error is logged.
func (p *Producer) Close() error {
	p.producer.AsyncClose()
	p.wg.Wait()
	return nil
}

var _ events.Publisher = (*Producer)(nil)
