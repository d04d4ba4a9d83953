package system

import "github.com/sirupsen/logrus"

var log = logrus.WithField("system", "broadphase")

// SetLogLevel is a shortcut for the commands, the entry shares the standard
// logrus logger.
func SetLogLevel(level logrus.Level) {
	logrus.SetLevel(level)
}
