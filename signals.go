package treecodec

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalCodecRegistered = capitan.NewSignal("treecodec.registry.registered", "Codec registered with a registry")
	SignalEncodeStart     = capitan.NewSignal("treecodec.encode.start", "Encode operation beginning")
	SignalEncodeComplete  = capitan.NewSignal("treecodec.encode.complete", "Encode operation finished")
	SignalDecodeStart     = capitan.NewSignal("treecodec.decode.start", "Decode operation beginning")
	SignalDecodeComplete  = capitan.NewSignal("treecodec.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyCodec      = capitan.NewStringKey("codec")
	KeySchemaTag  = capitan.NewStringKey("schema_tag")
	KeyClaimCount = capitan.NewIntKey("claim_count")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

// emitCodecRegistered emits an event when a codec is registered.
func emitCodecRegistered(ctx context.Context, codec string, claims int) {
	capitan.Emit(ctx, SignalCodecRegistered,
		KeyCodec.Field(codec),
		KeyClaimCount.Field(claims),
	)
}

// emitEncodeStart emits an event when an encode begins.
func emitEncodeStart(ctx context.Context, codec, tag string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyCodec.Field(codec),
		KeySchemaTag.Field(tag),
	)
}

// emitEncodeComplete emits an event when an encode finishes.
func emitEncodeComplete(ctx context.Context, codec, tag string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyCodec.Field(codec),
		KeySchemaTag.Field(tag),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when a decode begins.
func emitDecodeStart(ctx context.Context, tag string) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeySchemaTag.Field(tag),
	)
}

// emitDecodeComplete emits an event when a decode finishes.
func emitDecodeComplete(ctx context.Context, codec, tag string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyCodec.Field(codec),
		KeySchemaTag.Field(tag),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
