package scheduler

import (
	"io"

	"github.com/sirupsen/logrus"
)

func nopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func loggerOr(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return nopLogger()
	}
	return l
}
