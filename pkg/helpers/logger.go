package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger that stamps every entry with the app
// name. Development gets colored text at debug level, everything else JSON.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.AddHook(appHook{app: appName})

	switch env {
	case "development":
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "test":
		logger.SetLevel(logrus.WarnLevel)
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	default:
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{FieldMap: logrus.FieldMap{logrus.FieldKeyTime: "ts"}})
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	logger.WithField("env", env).Debug("logger ready")
	return logger
}

// NewDiscardLogger drops everything.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type appHook struct{ app string }

func (appHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.app
	}
	return nil
}

// LogError logs msg at error level with err under the "error" key.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	withError(logger, err, fields, logrus.ErrorLevel, msg)
}

// LogWarn is LogError at warn level, for best-effort work that failed.
func LogWarn(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	withError(logger, err, fields, logrus.WarnLevel, msg)
}

func withError(logger logrus.FieldLogger, err error, fields logrus.Fields, lvl logrus.Level, msg string) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithField(logrus.ErrorKey, err.Error())
	}
	if lvl == logrus.ErrorLevel {
		entry.Error(msg)
		return
	}
	entry.Warn(msg)
}
