package db

import (
	"context"
	"time"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
)

// slowThreshold 慢查询日志阈值
const slowThreshold = time.Millisecond * 200

// getLogInterface zap适配gorm日志接口
func getLogInterface(zapLog *zap.Logger, level string) glogger.Interface {
	l := &gormLogger{
		logger: zapLog,
		level:  glogger.Silent,
	}
	switch level {
	case "info":
		l.level = glogger.Info
	case "warn":
		l.level = glogger.Warn
	case "error":
		l.level = glogger.Error
	}
	return l
}

type gormLogger struct {
	logger *zap.Logger
	level  glogger.LogLevel
}

func (l *gormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= glogger.Info {
		l.logger.Sugar().Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= glogger.Warn {
		l.logger.Sugar().Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= glogger.Error {
		l.logger.Sugar().Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= glogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	switch {
	case err != nil && l.level >= glogger.Error:
		l.logger.Error("sql error",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	case elapsed > slowThreshold && l.level >= glogger.Warn:
		l.logger.Warn("slow sql",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed))
	case l.level >= glogger.Info:
		l.logger.Debug("sql",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed))
	}
}
