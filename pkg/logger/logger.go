// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package logger

import (
	"io"

	"github.com/nttcom/pcepio/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogInit tees a JSON core writing to fp with a console core writing to
// console. Either writer may be nil.
func LogInit(fp io.Writer, console io.Writer, cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	pe := zap.NewProductionEncoderConfig()
	fileEncoder := zapcore.NewJSONEncoder(pe)
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(pe)

	var cores []zapcore.Core
	if fp != nil {
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(fp), level))
	}
	if console != nil {
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), level))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
