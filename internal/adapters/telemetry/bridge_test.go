package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogBridge(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var infos, warns []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) { infos = append(infos, msg) })
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) { warns = append(warns, msg) })

	tp := telemetry.NewTracingProvider(log)
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := telemetry.NewOTelTracerWithProvider(tp, telemetry.InstrumentationName)

	_, span := tracer.Start(context.Background(), "memo.compute")
	span.SetAttribute("memo.object", "A")
	span.SetAttribute("memo.cache_hit", false)
	span.End()

	_, failed := tracer.Start(context.Background(), "memo.load")
	failed.RecordError(errors.New("payload missing"))
	failed.End()

	if assert.Len(t, infos, 1) {
		assert.Contains(t, infos[0], "memo.compute ")
		assert.Contains(t, infos[0], "memo.cache_hit=false memo.object=A")
	}
	if assert.Len(t, warns, 1) {
		assert.Contains(t, warns[0], "memo.load ")
		assert.Contains(t, warns[0], "error=payload missing")
	}
}
