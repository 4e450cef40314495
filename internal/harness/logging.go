package harness

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// InitLogging points the global zerolog logger at stderr with a console
// writer, timestamps, and caller info, and teaches it to render
// github.com/pkg/errors stack traces. Every cmd/ program calls this once
// at startup, before executing its command.
func InitLogging(debug bool) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Caller().Logger()
}
