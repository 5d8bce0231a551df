package commands

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/galois"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the CLI logger. It is a no-op until InitLogger runs.
var Logger = zap.NewNop().Sugar()

// InitLogger builds the logger from cfg: JSON for machine consumption,
// console otherwise, both on stderr so command output stays clean.
func InitLogger(cfg LogConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(ec)
	}

	Logger = zap.New(zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)).Sugar()
	return nil
}

// signalNames pairs every galois signal with the name it is logged under.
var signalNames = []struct {
	name   string
	signal capitan.Signal
}{
	{"context.created", galois.ContextCreated},
	{"context.reduced", galois.ContextReduced},
	{"generation.started", galois.GenerationStarted},
	{"generation.completed", galois.GenerationCompleted},
	{"generation.failed", galois.GenerationFailed},
	{"partition.completed", galois.PartitionCompleted},
	{"context.verified", galois.ContextVerified},
	{"lattice.built", galois.LatticeBuilt},
	{"concept.labeled", galois.ConceptLabeled},
	{"concepts.persisted", galois.ConceptsPersisted},
}

var (
	listeners   []*capitan.Listener
	listenersMu sync.Mutex
)

// HookSignals logs every galois signal through Logger. Partition events are
// logged at debug level, failures at error level, the rest at info.
func HookSignals() {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	for _, s := range signalNames {
		name := s.name
		listeners = append(listeners, capitan.Hook(s.signal, func(_ context.Context, e *capitan.Event) {
			logEvent(name, e)
		}))
	}
}

// UnhookSignals detaches the listeners installed by HookSignals.
func UnhookSignals() {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	for _, l := range listeners {
		l.Close()
	}
	listeners = nil
}

func logEvent(name string, e *capitan.Event) {
	fields := eventFields(e)
	switch {
	case e.Severity() == capitan.SeverityError:
		Logger.Errorw(name, fields...)
	case name == "partition.completed":
		Logger.Debugw(name, fields...)
	default:
		Logger.Infow(name, fields...)
	}
}

// fieldKey is satisfied by capitan's typed keys.
type fieldKey[T any] interface {
	Name() string
	From(e *capitan.Event) (T, bool)
}

var (
	stringKeys = []fieldKey[string]{
		galois.FieldContextID, galois.FieldContextName, galois.FieldAlgorithm,
		galois.FieldLabel, galois.FieldProvider, galois.FieldProviderSource,
	}
	intKeys = []fieldKey[int]{
		galois.FieldObjectCount, galois.FieldAttributeCount, galois.FieldConceptCount,
		galois.FieldCandidates, galois.FieldRejected, galois.FieldPartition,
		galois.FieldWorkers, galois.FieldRemovedObjects, galois.FieldRemovedAttributes,
		galois.FieldEdgeCount, galois.FieldSequence,
	}
)

// eventFields flattens the galois fields present on e into zap key-value pairs.
func eventFields(e *capitan.Event) []any {
	var fields []any
	for _, k := range stringKeys {
		if v, ok := k.From(e); ok && v != "" {
			fields = append(fields, k.Name(), v)
		}
	}
	for _, k := range intKeys {
		if v, ok := k.From(e); ok {
			fields = append(fields, k.Name(), v)
		}
	}
	if d, ok := galois.FieldDuration.From(e); ok {
		fields = append(fields, galois.FieldDuration.Name(), d)
	}
	if err, ok := galois.FieldError.From(e); ok && err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}
