package logging

import "time"

// TimedOperation measures an operation and logs it once, when it ends, with
// a latency field.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started.
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at info level with its latency and extra fields.
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.collect(extra, Latency(t.Elapsed()))...)
}

// EndWarn logs the operation at warn level with its latency and extra fields.
func (t *TimedOperation) EndWarn(extra ...Field) {
	t.logger.Warn(t.msg, t.collect(extra, Latency(t.Elapsed()))...)
}

// EndError logs the operation as failed with its latency and err.
func (t *TimedOperation) EndError(err error, extra ...Field) {
	t.logger.Error(t.msg, t.collect(extra, Latency(t.Elapsed()), Error(err))...)
}

func (t *TimedOperation) collect(extra []Field, tail ...Field) []Field {
	out := make([]Field, 0, len(t.fields)+len(extra)+len(tail))
	out = append(out, t.fields...)
	out = append(out, extra...)
	return append(out, tail...)
}
