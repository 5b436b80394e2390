package rayfire

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModule struct {
	name  string
	order *[]string
	err   error
}

func (m recordingModule) Install(b *EngineBuilder) error {
	*m.order = append(*m.order, m.name)
	return m.err
}

func TestEngineBuilder_ModulesInstallInOrder(t *testing.T) {
	m, err := mesh.Box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	require.NoError(t, err)

	var order []string
	e, err := NewEngineBuilder(m).
		UseLogger(NewNopLogger()).
		UseModule(recordingModule{name: "a", order: &order}).
		UseModule(recordingModule{name: "b", order: &order}, recordingModule{name: "c", order: &order}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, DefaultConfig(), e.Config())
	assert.Same(t, m, e.Model())
}

func TestEngineBuilder_ModuleErrorsAreJoined(t *testing.T) {
	m, err := mesh.Box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	require.NoError(t, err)

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var order []string
	_, err = NewEngineBuilder(m).
		UseModule(recordingModule{name: "a", order: &order, err: errA}).
		UseModule(recordingModule{name: "b", order: &order, err: errB}).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, order, 2)
}

func TestEngineBuilder_LoggingAndConfigModules(t *testing.T) {
	m, err := mesh.TripleBlock()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rayfire.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_leaf_triangles": 1, "tie_tolerance": 1e-7}`), 0o644))

	e, err := NewEngineBuilder(m).
		UseModule(LoggingModule{Prefix: "rayfire-test", Debug: true}, ConfigModule{Path: path}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 1, e.Config().MaxLeafTriangles)
	assert.Equal(t, 1e-7, e.Config().TieTolerance)
	assert.Equal(t, DefaultConfig().HistoryWindow, e.Config().HistoryWindow)

	l, ok := e.Logger().(*DefaultLogger)
	require.True(t, ok)
	assert.True(t, l.DebugEnabled())

	_, err = NewEngineBuilder(m).UseModule(ConfigModule{Path: filepath.Join(t.TempDir(), "missing.json")}).Build()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngineBuilder_LogsBuildSummary(t *testing.T) {
	m, err := mesh.TripleBlock()
	require.NoError(t, err)

	var buf bytes.Buffer
	l := NewDefaultLogger("rf", false)
	l.out = log.New(&buf, "", 0)

	_, err = NewEngineBuilder(m).UseLogger(l).Build()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[rf model="+m.ID.String()+"] INFO: 3 volumes, 16 surfaces, 32 facets")
	assert.NotContains(t, buf.String(), "DEBUG")
}

func TestEngineBuilder_InvalidConfig(t *testing.T) {
	m, err := mesh.Box(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Epsilon = -1
	_, err = NewEngineBuilder(m).UseConfig(cfg).Build()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
