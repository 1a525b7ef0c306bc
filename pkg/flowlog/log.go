// Package flowlog provides the runtime's structured logging: a single
// global zerolog.Logger, initialised once at process startup, plus
// helpers that turn a routing outcome into a structured event instead
// of a bare message string.
package flowlog

import (
	"io"
	"os"
	"time"

	"github.com/cuemby/flowrt/pkg/nodetype"
	"github.com/cuemby/flowrt/pkg/packet"
	"github.com/rs/zerolog"
)

// Logger is the runtime's global logger, valid after Init runs.
var Logger zerolog.Logger

// Level names a logging verbosity.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

var zerologLevels = map[Level]zerolog.Level{
	DebugLevel: zerolog.DebugLevel,
	InfoLevel:  zerolog.InfoLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
}

// Config holds logging configuration.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init builds the global Logger from cfg. Console output (the default)
// renders RFC3339 timestamps for a human at a terminal; JSON output
// suits log aggregation.
func Init(cfg Config) {
	level, ok := zerologLevels[cfg.Level]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = cfg.Output
	if w == nil {
		w = os.Stdout
	}
	if !cfg.JSONOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	Logger = zerolog.New(w).With().Timestamp().Logger()
}

func Info(msg string)  { Logger.Info().Msg(msg) }
func Debug(msg string) { Logger.Debug().Msg(msg) }
func Warn(msg string)  { Logger.Warn().Msg(msg) }
func Error(msg string) { Logger.Error().Msg(msg) }
func Fatal(msg string) { Logger.Fatal().Msg(msg) }

func Errorf(format string, err error) {
	Logger.Error().Err(err).Msg(format)
}

// DeliveryError logs a packet routing failure observed by a
// Container.OnDeliveryError hook: src is the node whose output port
// emitted the packet, dst the destination whose Process call returned
// err, or nil when the failure was on an exported-port forward with no
// child destination. Delivery to any other destination continues
// regardless of this failure; this only records it.
func DeliveryError(src *nodetype.Node, srcPort uint16, dst *nodetype.Node, dstPort uint16, err error) {
	evt := Logger.Error().Err(err).Str("src_node", src.ID).Uint16("src_port", srcPort)
	if dst != nil {
		evt = evt.Str("dst_node", dst.ID).Uint16("dst_port", dstPort)
	}
	evt.Msg("packet delivery failed")
}

// OutputPacket logs a packet a running graph sent out its top-level
// exported output port.
func OutputPacket(port uint16, p *packet.Packet) {
	Logger.Info().Uint16("port", port).Str("type", p.Type().String()).Msg("output packet")
}
