// Package events handles event emission for answer scoring decisions
package events

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/quizkit/sage/pkg/kafka"
	"github.com/quizkit/sage/pkg/models"
	"github.com/quizkit/sage/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter publishes scoring outcomes as events. Emission is best-effort
// plumbing around the engine: callers log failures and keep serving.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitAnswerChecked emits an answer.checked event for a completed decision
func (e *Emitter) EmitAnswerChecked(ctx context.Context, decision *models.Decision, latency time.Duration) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitAnswerChecked")
	defer span.End()

	event := &kafka.DecisionEvent{
		EventType:  "answer.checked",
		DecisionID: uuid.NewString(),
		IsCorrect:  decision.IsCorrect,
		Confidence: decision.Confidence,
		Scores:     decision.Scores,
		Threshold:  decision.Threshold,
		LatencyMS:  latency.Milliseconds(),
	}

	if err := e.producer.PublishDecisionEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit answer.checked event")
		return err
	}

	return nil
}
