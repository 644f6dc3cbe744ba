package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string `help:"日志级别,可选[debug|info|warn|error]" default:"info"`
	Filename   string `help:"日志文件路径,为空输出到stderr" default:""`
	MaxSize    int    `help:"单个日志文件最大MB" default:"100"`
	MaxBackups int    `help:"保留旧日志文件个数" default:"10"`
	MaxAge     int    `help:"日志保留天数" default:"30"`
	Compress   bool   `help:"是否压缩旧日志" default:"false"`
}

// New 创建zap日志，配置了文件路径时按大小滚动
func New(conf Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var ws zapcore.WriteSyncer
	if conf.Filename != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Filename,
			MaxSize:    conf.MaxSize,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAge,
			Compress:   conf.Compress,
		})
	} else {
		ws = zapcore.AddSync(os.Stderr)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	return zap.New(core, zap.AddCaller()), nil
}
