package rayfire

import (
	"bytes"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captured(prefix string, debug bool) (*DefaultLogger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	l := NewDefaultLogger(prefix, debug)
	l.out = log.New(&out, "", 0)
	l.err = log.New(&errOut, "", 0)
	return l, &out, &errOut
}

func TestDefaultLogger_Levels(t *testing.T) {
	l, out, errOut := captured("engine", false)

	l.Debugf("hidden %d", 1)
	l.Infof("built %d trees", 3)
	l.Warnf("surface %d empty", 7)
	l.Errorf("boom")

	assert.Equal(t, "[engine] INFO: built 3 trees\n", out.String())
	assert.Equal(t, "[engine] WARN: surface 7 empty\n[engine] ERROR: boom\n", errOut.String())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "[engine] DEBUG: shown 2")
}

func TestDefaultLogger_NoPrefix(t *testing.T) {
	l, out, _ := captured("", false)
	l.Infof("plain")
	assert.Equal(t, "INFO: plain\n", out.String())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	l.Infof("nothing")
}

func TestDefaultLogger_ForModel(t *testing.T) {
	id := uuid.New()
	l, out, errOut := captured("rf", false)

	child := l.ForModel(id)
	child.Infof("built")
	child.Warnf("surface %d empty", 4)
	assert.Equal(t, "[rf model="+id.String()+"] INFO: built\n", out.String())
	assert.Equal(t, "[rf model="+id.String()+"] WARN: surface 4 empty\n", errOut.String())

	// The child follows its parent's level.
	l.SetDebug(true)
	assert.True(t, child.DebugEnabled())

	bare, out, _ := captured("", false)
	bare.ForModel(id).Infof("x")
	assert.Equal(t, "[model="+id.String()+"] INFO: x\n", out.String())
}

func TestDefaultLogger_SetLevel(t *testing.T) {
	l, out, errOut := captured("", true)
	l.SetLevel(LevelWarn)
	assert.False(t, l.DebugEnabled())

	l.Infof("dropped")
	l.Warnf("kept")
	l.Errorf("kept too")
	assert.Empty(t, out.String())
	assert.Equal(t, "WARN: kept\nERROR: kept too\n", errOut.String())
	assert.Equal(t, "ERROR", Level(42).String())
}

func TestLoggingModule_Level(t *testing.T) {
	warn := LevelWarn
	var b EngineBuilder
	require.NoError(t, LoggingModule{Prefix: "rf", Debug: true, Level: &warn}.Install(&b))
	l, ok := b.logger.(*DefaultLogger)
	require.True(t, ok)
	assert.Equal(t, LevelWarn, l.Level())

	bad := Level(9)
	assert.ErrorIs(t, LoggingModule{Level: &bad}.Install(&b), ErrInvalidConfig)
}
