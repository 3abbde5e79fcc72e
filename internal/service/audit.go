package service

import "go.uber.org/zap"

// AuditLogger records account and room mutations as structured
// (source, category, message) entries.
type AuditLogger struct {
	logger *zap.Logger
}

func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// NewNopAuditLogger discards all entries; used in tests.
func NewNopAuditLogger() *AuditLogger {
	return &AuditLogger{logger: zap.NewNop()}
}

func (a *AuditLogger) Record(source, category, message string) {
	a.logger.Info(message,
		zap.String("source", source),
		zap.String("category", category),
	)
}

func (a *AuditLogger) Warn(source, category, message string) {
	a.logger.Warn(message,
		zap.String("source", source),
		zap.String("category", category),
	)
}
