package cstruct

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerReceivesDebugEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	s := New().Field("a", U8).Field("label", CharPointerAsString()).Field("arr", SizedArray(U8, 2))
	buf := make([]byte, s.Size())
	require.NoError(t, s.Encode(map[string]any{"a": 1, "arr": []int{1, 2, 3}}, Options{Buf: buf}))

	skipped := logs.FilterMessage("skipping read-only field").All()
	require.Len(t, skipped, 1)
	require.Equal(t, "label", skipped[0].ContextMap()["field"])
	require.Equal(t, 1, logs.FilterMessage("truncating array write").Len())
	require.Equal(t, []byte{1, 2}, buf[8:10])
}
