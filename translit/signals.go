package translit

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/az-ai-labs/az-translit/rules"
)

// Signals for registry and inversion events.
var (
	SignalCompileComplete  = capitan.NewSignal("translit.compile.complete", "Transform compiled")
	SignalLookupUnknown    = capitan.NewSignal("translit.lookup.unknown", "Lookup of an unregistered transform")
	SignalInverseComplete  = capitan.NewSignal("translit.inverse.complete", "Inverse transform synthesized")
	SignalInverseAmbiguous = capitan.NewSignal("translit.inverse.ambiguous", "Inversion dropped information")
)

// Keys for typed event data.
var (
	KeyID       = capitan.NewStringKey("id")
	KeyKind     = capitan.NewStringKey("kind")
	KeyRules    = capitan.NewIntKey("rules")
	KeyWarnings = capitan.NewIntKey("warnings")
	KeyDetail   = capitan.NewStringKey("detail")
	KeyLine     = capitan.NewIntKey("line")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

// emitCompileComplete emits an event when a registry entry finishes compiling.
func emitCompileComplete(ctx context.Context, id string, t *Transliterator, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyID.Field(id),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCompileComplete, fields...)
		return
	}
	fields = append(fields, KeyKind.Field(t.kind.String()))
	if t.rules != nil {
		fields = append(fields, KeyRules.Field(t.rules.Len()))
	}
	capitan.Emit(ctx, SignalCompileComplete, fields...)
}

// emitLookupUnknown emits an event when a lookup misses.
func emitLookupUnknown(ctx context.Context, id string) {
	capitan.Emit(ctx, SignalLookupUnknown, KeyID.Field(id))
}

// emitInverseComplete emits one event for the synthesized inverse and one
// per inversion warning.
func emitInverseComplete(ctx context.Context, id string, n int, warns []rules.AmbiguousInversionWarning, duration time.Duration) {
	capitan.Emit(ctx, SignalInverseComplete,
		KeyID.Field(id),
		KeyRules.Field(n),
		KeyWarnings.Field(len(warns)),
		KeyDuration.Field(duration),
	)
	for _, w := range warns {
		capitan.Emit(ctx, SignalInverseAmbiguous,
			KeyID.Field(id),
			KeyKind.Field(w.Kind.String()),
			KeyDetail.Field(w.String()),
			KeyLine.Field(w.Line),
		)
	}
}
