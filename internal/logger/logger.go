package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the encoding and verbosity of the CLI logger.
type Options struct {
	JSON  bool
	Debug bool
	// Outputs defaults to stderr so command results printed on stdout stay
	// machine-readable.
	Outputs []string
	// Name is attached to every entry when set.
	Name string
}

func (o Options) config() zap.Config {
	encoding := "console"
	if o.JSON {
		encoding = "json"
	}

	level := zapcore.InfoLevel
	if o.Debug {
		level = zapcore.DebugLevel
	}

	outputs := o.Outputs
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	return zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			NameKey: "logger",
		},
	}
}

// New builds the CLI logger.
func New(opts Options) (*zap.Logger, error) {
	logger, err := opts.config().Build()
	if err != nil {
		return nil, err
	}

	if opts.Name != "" {
		logger = logger.Named(opts.Name)
	}
	return logger, nil
}
