package messaging

import (
	"context"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/pkg/models"
)

const DefaultMovieWatchedTopic = "movie-watched"

// MovieWatchedEvent is published whenever a movie is added to the history.
type MovieWatchedEvent struct {
	RecordID    uuid.UUID   `json:"record_id"`
	MovieID     int         `json:"movie_id"`
	Title       string      `json:"title"`
	GenreIDs    []int       `json:"genre_ids"`
	Rating      int         `json:"rating"`
	WatchedWith []uuid.UUID `json:"watched_with"`
	WatchedAt   time.Time   `json:"watched_at"`
}

// NewMovieWatchedEvent builds the event for a history record.
func NewMovieWatchedEvent(record models.WatchedMovie) MovieWatchedEvent {
	return MovieWatchedEvent{
		RecordID:    record.RecordID,
		MovieID:     record.ID,
		Title:       record.Title,
		GenreIDs:    record.GenreIDs,
		Rating:      record.Rating,
		WatchedWith: record.WatchedWith,
		WatchedAt:   record.WatchedDate,
	}
}

// EventPublisher publishes watch-history events.
type EventPublisher interface {
	PublishMovieWatched(ctx context.Context, event MovieWatchedEvent) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the bus uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type MessageBus struct {
	writer MessageWriter
	topic  string
	logger *logrus.Logger
}

// NewPublisher returns a Kafka-backed publisher, or a no-op one when Kafka
// is disabled.
func NewPublisher(cfg *config.KafkaConfig, logger *logrus.Logger) EventPublisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		logger.Info("Kafka disabled, watch events will not be published")
		return NoopPublisher{}
	}

	topic := cfg.Topics.MovieWatched
	if topic == "" {
		topic = DefaultMovieWatchedTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // keyed by movie id
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return NewMessageBus(writer, topic, logger)
}

func NewMessageBus(writer MessageWriter, topic string, logger *logrus.Logger) *MessageBus {
	return &MessageBus{writer: writer, topic: topic, logger: logger}
}

func (mb *MessageBus) PublishMovieWatched(ctx context.Context, event MovieWatchedEvent) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	movieKey := strconv.Itoa(event.MovieID)
	kafkaMessage := kafka.Message{
		Key:   []byte(movieKey),
		Value: messageBytes,
		Headers: []kafka.Header{
			{Key: "record_id", Value: []byte(event.RecordID.String())},
			{Key: "event_type", Value: []byte("movie_watched")},
			{Key: "timestamp", Value: []byte(event.WatchedAt.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mb.writer.WriteMessages(ctx, kafkaMessage); err != nil {
		mb.logger.WithError(err).WithField("record_id", event.RecordID).Error("Failed to publish message to Kafka")
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	mb.logger.WithFields(logrus.Fields{
		"record_id": event.RecordID,
		"movie_id":  event.MovieID,
		"topic":     mb.topic,
	}).Info("Message published to Kafka")

	return nil
}

func (mb *MessageBus) Close() error {
	if err := mb.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	mb.logger.Info("Kafka connections closed")
	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishMovieWatched(context.Context, MovieWatchedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
