// Package registry maps model names to skeleton constructors so that a
// model file can be loaded without knowing its concrete type up front.
//
// A file names its model through the "model" hyperparameter. Files that
// lack it are treated as DefaultModel.
package registry

import (
	"sort"
	"sync"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/pkg/errors"
)

// ModelKey is the hyperparameter that names the model type.
const ModelKey = "model"

// DefaultModel is used when a header carries no ModelKey.
const DefaultModel = "mlp"

// ErrUnknownModel is returned by Lookup and Build for unregistered names.
var ErrUnknownModel = errors.New("unknown model")

// Builder creates a zero-initialized skeleton from hyperparameters.
type Builder func(h hparams.Hyperparameters) (nn.Module, error)

var (
	mu       sync.RWMutex
	builders = map[string]Builder{}
)

// Register associates name with build. Registering a name twice panics.
func Register(name string, build Builder) {
	mu.Lock()
	defer mu.Unlock()
	if build == nil {
		panic("registry: nil builder for " + name)
	}
	if _, dup := builders[name]; dup {
		panic("registry: model " + name + " registered twice")
	}
	builders[name] = build
}

// Lookup returns the builder registered under name.
func Lookup(name string) (Builder, error) {
	mu.RLock()
	defer mu.RUnlock()
	build, ok := builders[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q (registered: %v)", name, namesLocked())
	}
	return build, nil
}

// Names returns the registered model names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelName returns the model named by h, or DefaultModel.
func ModelName(h hparams.Hyperparameters) (string, error) {
	if !h.Has(ModelKey) {
		return DefaultModel, nil
	}
	name, err := h.String(ModelKey)
	return name, errors.WithStack(err)
}

// Build looks up the model named by h and builds its skeleton. It has the
// constructor shape expected by serialization.Load.
func Build(h hparams.Hyperparameters) (nn.Module, error) {
	name, err := ModelName(h)
	if err != nil {
		return nil, err
	}
	build, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	m, err := build(h)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s", name)
	}
	return m, nil
}

func init() {
	Register("mlp", func(h hparams.Hyperparameters) (nn.Module, error) {
		cfg, err := nn.MLPConfigFrom(h)
		if err != nil {
			return nil, err
		}
		return nn.NewMLP(cfg)
	})
	Register("linear", func(h hparams.Hyperparameters) (nn.Module, error) {
		cfg, err := nn.LinearConfigFrom(h)
		if err != nil {
			return nil, err
		}
		return nn.NewLinearFromConfig(cfg)
	})
}
