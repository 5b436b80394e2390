package rayfire

import (
	"errors"
	"fmt"

	"github.com/gekko3d/rayfire/meshrt/rt/mesh"
)

// Module configures an EngineBuilder before the trees are built.
type Module interface {
	Install(b *EngineBuilder) error
}

type EngineBuilder struct {
	model   *mesh.Model
	cfg     Config
	logger  Logger
	modules []Module
}

func NewEngineBuilder(model *mesh.Model) *EngineBuilder {
	return &EngineBuilder{model: model, cfg: DefaultConfig()}
}

func (b *EngineBuilder) UseConfig(cfg Config) *EngineBuilder {
	b.cfg = cfg
	return b
}

func (b *EngineBuilder) UseLogger(l Logger) *EngineBuilder {
	b.logger = l
	return b
}

func (b *EngineBuilder) UseModule(modules ...Module) *EngineBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build installs the modules in order, then builds the acceleration
// structures.
func (b *EngineBuilder) Build() (*Engine, error) {
	var errs []error
	for _, m := range b.modules {
		if err := m.Install(b); err != nil {
			errs = append(errs, fmt.Errorf("install %T: %w", m, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	e, err := NewEngine(b.model, b.cfg, b.logger)
	if err != nil {
		return nil, err
	}

	if err := e.BuildAccelerationStructures(); err != nil {
		return nil, err
	}
	st := e.Stats()
	e.logger.Infof("%d volumes, %d surfaces, %d facets, %d tree nodes built in %s",
		b.model.NumVolumes(), st.Surfaces, st.Facets, st.Nodes, e.BuildTime())
	if e.logger.DebugEnabled() {
		e.logger.Debugf("build profile:\n%s", e.BuildReport())
	}
	return e, nil
}

// ConfigModule loads the engine config from a JSON file.
type ConfigModule struct {
	Path string
}

func (m ConfigModule) Install(b *EngineBuilder) error {
	cfg, err := LoadConfig(m.Path)
	if err != nil {
		return err
	}
	b.cfg = cfg
	return nil
}
