package logger

import (
	"context"
	"testing"
)

type recordingLogger struct {
	noOpLogger
	infos []string
}

func (r *recordingLogger) Info(msg string, keysAndValues ...any) {
	r.infos = append(r.infos, msg)
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background()).(*noOpLogger); !ok {
		t.Error("FromContext without a logger should return the no-op logger")
	}

	rec := &recordingLogger{}
	FromContext(WithLogger(context.Background(), rec)).Info("hello")

	if len(rec.infos) != 1 || rec.infos[0] != "hello" {
		t.Errorf("logged %v, want [hello]", rec.infos)
	}
}
