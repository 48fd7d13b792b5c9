// Package logging builds the zap logger shared by every component, matching
// the console-encoder setup the teacher API used for its own request logging.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates an info-level zap sugared logger writing to stdout. env "prod"
// selects a JSON encoder suited to log aggregation; any other value selects a
// human-friendly console encoder with color-coded levels.
func New(env string) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if env == "prod" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(core).Sugar(), nil
}
