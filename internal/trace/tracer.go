package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracer receives events. Implementations must be safe for concurrent Emit.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode says where events go: straight to a writer, into the
// in-memory ring, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode accepts stream, ring or both in any case.
func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config is what the --trace* flags decode into.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks NDJSON for *.ndjson and *.json outputs
	Output     io.Writer     // overrides OutputPath
	OutputPath string        // "" or "-" means stderr
	RingSize   int           // 4096 if not positive
	Heartbeat  time.Duration // 0 disables the heartbeat
}

func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch strings.ToLower(filepath.Ext(cfg.OutputPath)) {
	case ".ndjson", ".json":
		return FormatNDJSON
	}
	return FormatText
}

func (cfg Config) stream() (*StreamTracer, error) {
	w := cfg.Output
	if w == nil {
		switch cfg.OutputPath {
		case "", "-":
			w = os.Stderr
		default:
			// #nosec G304 -- path comes from the --trace flag
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
	}
	return NewStreamTracer(w, cfg.Level, cfg.format()), nil
}

// New builds the tracer cfg describes. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream:
		return cfg.stream()
	case ModeBoth:
		stream, err := cfg.stream()
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func isStdStream(w io.Writer) bool {
	return w == os.Stderr || w == os.Stdout
}
