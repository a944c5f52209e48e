package logger

import (
	"go.uber.org/zap"
)

// Structured field keys shared by the matching pipeline.
const (
	FieldPipeline    = "pipeline"
	FieldStep        = "step"
	FieldStatus      = "status"
	FieldJobID       = "job_id"
	FieldCandidateID = "candidate_id"
)

// Step returns the pipeline/step/status triple used across pipeline log lines.
func Step(pipeline, step, status string) []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if pipeline != "" {
		fields = append(fields, zap.String(FieldPipeline, pipeline))
	}
	if step != "" {
		fields = append(fields, zap.String(FieldStep, step))
	}
	if status != "" {
		fields = append(fields, zap.String(FieldStatus, status))
	}
	return fields
}

// WithFields attaches fields to the logger, defaulting to a no-op logger when nil.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
