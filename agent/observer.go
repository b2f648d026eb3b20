package agent

import "github.com/sirupsen/logrus"

// LineObserver sees every inbound line before it is classified.
type LineObserver interface {
	ObserveLine(line string)
}

type ObserverFunc func(line string)

func (f ObserverFunc) ObserveLine(line string) { f(line) }

type nopObserver struct{}

func (nopObserver) ObserveLine(string) {}

// LogObserver writes each line to logger at debug level.
func LogObserver(logger logrus.FieldLogger) LineObserver {
	return ObserverFunc(func(line string) {
		logger.WithField("line", line).Debug("received")
	})
}
