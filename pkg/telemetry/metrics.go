// SPDX-License-Identifier: Apache-2.0
// Meeting metrics for production monitoring of the orchestrator.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeetingMetrics tracks meeting runs and model call outcomes.
type MeetingMetrics struct {
	// meetingCounter tracks completed meetings by type and outcome
	meetingCounter metric.Int64Counter

	// modelCallCounter tracks model calls by agent and outcome
	modelCallCounter metric.Int64Counter

	// modelCallDuration tracks model call latency in seconds
	modelCallDuration metric.Float64Histogram
}

// NewMeetingMetrics creates a meeting metrics tracker with OTEL meters.
func NewMeetingMetrics() (*MeetingMetrics, error) {
	meter := otel.Meter("boardroom/meeting")

	meetingCounter, err := meter.Int64Counter(
		"boardroom.meetings.total",
		metric.WithDescription("Completed meetings by type and outcome"),
	)
	if err != nil {
		return nil, err
	}

	modelCallCounter, err := meter.Int64Counter(
		"boardroom.model_calls.total",
		metric.WithDescription("Model calls by agent and outcome"),
	)
	if err != nil {
		return nil, err
	}

	modelCallDuration, err := meter.Float64Histogram(
		"boardroom.model_calls.duration",
		metric.WithDescription("Model call latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &MeetingMetrics{
		meetingCounter:    meetingCounter,
		modelCallCounter:  modelCallCounter,
		modelCallDuration: modelCallDuration,
	}, nil
}

// RecordMeeting increments the meeting counter for the given type and outcome.
func (mm *MeetingMetrics) RecordMeeting(ctx context.Context, meetingType string, ok bool) {
	if mm == nil {
		return
	}
	mm.meetingCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("meeting.type", meetingType),
			attribute.Bool("ok", ok),
		),
	)
}

// RecordModelCall records one model call with its latency and outcome.
func (mm *MeetingMetrics) RecordModelCall(ctx context.Context, agentID string, elapsed time.Duration, err error) {
	if mm == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("agent.id", agentID),
		attribute.String("outcome", outcome),
	)
	mm.modelCallCounter.Add(ctx, 1, attrs)
	mm.modelCallDuration.Record(ctx, elapsed.Seconds(), attrs)
}
