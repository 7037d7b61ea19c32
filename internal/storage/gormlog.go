package storage

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

type zapWriter struct{ s *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...any) { w.s.Infof(format, args...) }

func newGormLogger(log *zap.Logger) logger.Interface {
	return logger.New(zapWriter{s: log.Named("gorm").Sugar()}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
