package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

const (
	EventSource  = "training-portal"
	EventVersion = "1.0"
)

type ActivityType string

const (
	ActivityLoggedIn          ActivityType = "user.logged_in"
	ActivityLoggedOut         ActivityType = "user.logged_out"
	ActivityAttemptStarted    ActivityType = "attempt.started"
	ActivityAttemptSubmitted  ActivityType = "attempt.submitted"
	ActivitySubmissionGraded  ActivityType = "submission.graded"
	ActivityCoursePublished   ActivityType = "course.published"
	ActivityCourseUnpublished ActivityType = "course.unpublished"
	ActivityCourseDeleted     ActivityType = "course.deleted"
	ActivityCourseCreated     ActivityType = "course.created"
)

// ActivityEvent records one user action performed through the portal
type ActivityEvent struct {
	ID        string          `json:"id"`
	Type      ActivityType    `json:"type"`
	Actor     string          `json:"actor"`
	Role      models.UserRole `json:"role"`
	CourseID  string          `json:"course_id,omitempty"`
	AttemptID string          `json:"attempt_id,omitempty"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewActivityEvent stamps a new event for the session's user
func NewActivityEvent(t ActivityType, sess models.Session, courseID string) ActivityEvent {
	return ActivityEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Actor:     sess.Username,
		Role:      sess.Role,
		CourseID:  courseID,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
	}
}

// WithAttempt tags the event with the student experiment it concerns
func (e ActivityEvent) WithAttempt(studentExpID string) ActivityEvent {
	e.AttemptID = studentExpID
	return e
}

// EventPublisher publishes activity events
type EventPublisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
	Close() error
}

// Emit publishes event and only logs a failure
func Emit(ctx context.Context, pub EventPublisher, logger *slog.Logger, event ActivityEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish activity event",
			"type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}

// ===== WATERMILL =====

// WatermillPublisher sends events to a watermill publisher as JSON messages
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

func NewWatermillPublisher(publisher message.Publisher, topic string) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher, topic: topic}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event ActivityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal activity event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	return p.publisher.Publish(p.topic, msg)
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// NewGoChannel creates the in-process pub/sub used when no broker is configured
func NewGoChannel(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
}

// NewKafkaPublisher creates a watermill publisher writing to the given brokers
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (message.Publisher, error) {
	pub, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	return pub, nil
}

// StartActivityLogger logs every event published on topic until ctx is done.
// The returned channel is closed once the subscription ends.
func StartActivityLogger(ctx context.Context, sub message.Subscriber, topic string, logger *slog.Logger) (<-chan struct{}, error) {
	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			var event ActivityEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				logger.Warn("Dropping malformed activity event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			logger.Info("Activity",
				"type", event.Type,
				"actor", event.Actor,
				"role", event.Role,
				"course_id", event.CourseID,
				"attempt_id", event.AttemptID,
				"event_id", event.ID)
			msg.Ack()
		}
	}()
	return done, nil
}
