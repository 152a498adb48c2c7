// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package commons

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging contract every component receives through its constructor.
type Logger interface {
	Level() zapcore.Level
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	DPanic(args ...interface{})
	DPanicf(template string, args ...interface{})
	Panic(args ...interface{})
	Panicf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Benchmark(functionName string, duration time.Duration)
	Tracef(ctx context.Context, format string, args ...interface{})
	Sync() error
}

type applicationLogger struct {
	*zap.SugaredLogger
	level zapcore.Level
}

type loggerOptions struct {
	name     string
	level    string
	path     string
	maxSize  int
	maxAge   int
	backups  int
	compress bool
}

type LoggerOption func(*loggerOptions)

func Name(name string) LoggerOption {
	return func(o *loggerOptions) { o.name = name }
}

func Level(level string) LoggerOption {
	return func(o *loggerOptions) { o.level = level }
}

// Path enables a rotating <name>.log file sink in the given directory, next
// to the console output.
func Path(path string) LoggerOption {
	return func(o *loggerOptions) { o.path = path }
}

func NewApplicationLogger(opts ...LoggerOption) (Logger, error) {
	options := &loggerOptions{
		name:     "speaker",
		level:    "debug",
		maxSize:  100,
		maxAge:   7,
		backups:  5,
		compress: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	level, err := zapcore.ParseLevel(options.level)
	if err != nil {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level),
	}
	if options.path != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(options.path, options.name+".log"),
			MaxSize:    options.maxSize,
			MaxAge:     options.maxAge,
			MaxBackups: options.backups,
			Compress:   options.compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).
		Named(options.name)
	return &applicationLogger{
		SugaredLogger: logger.Sugar(),
		level:         level,
	}, nil
}

func (l *applicationLogger) Level() zapcore.Level {
	return l.level
}

func (l *applicationLogger) Benchmark(functionName string, duration time.Duration) {
	l.Debugw("benchmark", "function", functionName, "duration", duration.String())
}

func (l *applicationLogger) Tracef(ctx context.Context, format string, args ...interface{}) {
	if ctx != nil && ctx.Err() != nil {
		l.Debugf("[cancelled] "+format, args...)
		return
	}
	l.Debugf(format, args...)
}

// NewNopLogger discards everything; used where a component needs a Logger but
// nothing is configured.
func NewNopLogger() Logger {
	return &applicationLogger{
		SugaredLogger: zap.NewNop().Sugar(),
		level:         zapcore.InfoLevel,
	}
}
