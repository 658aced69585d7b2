package logger

import (
	"go.uber.org/zap/zapcore"
)

// Sink receives entries copied out of the zap pipeline.
type Sink interface {
	AddLog(entry LogEntry)
}

// DBCore wraps a zap core and copies entries at or above minLevel to a Sink.
type DBCore struct {
	zapcore.Core
	sink     Sink
	minLevel zapcore.Level
	fields   []zapcore.Field
}

func NewDBCore(baseCore zapcore.Core, sink Sink, minLevel zapcore.Level) zapcore.Core {
	return &DBCore{
		Core:     baseCore,
		sink:     sink,
		minLevel: minLevel,
	}
}

// With keeps fields attached via logger.With visible to Write.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &DBCore{
		Core:     c.Core.With(fields),
		sink:     c.sink,
		minLevel: c.minLevel,
		fields:   merged,
	}
}

func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= c.minLevel {
		var ip, userID string
		for _, group := range [][]zapcore.Field{c.fields, fields} {
			for _, f := range group {
				switch f.Key {
				case "ip":
					ip = f.String
				case "user_id":
					userID = f.String
				}
			}
		}

		c.sink.AddLog(LogEntry{
			Level:     entry.Level,
			Message:   entry.Message,
			IpAddress: ip,
			UserID:    userID,
			Caller:    entry.Caller.Function,
		})
	}

	return c.Core.Write(entry, fields)
}

func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
