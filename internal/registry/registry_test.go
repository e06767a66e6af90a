package registry

import (
	"testing"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/born-ml/hparamfile/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"linear", "mlp"}, Names())
}

func TestBuild(t *testing.T) {
	m, err := Build(hparams.Hyperparameters{"model": "mlp", "size": 5, "width": 10, "depth": 3, "use_tanh": true})
	require.NoError(t, err)
	mlp, ok := m.(*nn.MLP)
	require.True(t, ok, "got %T", m)
	assert.Len(t, mlp.Layers(), 4)

	// No model key falls back to the MLP.
	m, err = Build(hparams.Hyperparameters{"size": 2, "width": 3, "depth": 1})
	require.NoError(t, err)
	assert.IsType(t, &nn.MLP{}, m)

	m, err = Build(hparams.Hyperparameters{"model": "linear", "in_features": 3, "out_features": 2})
	require.NoError(t, err)
	assert.Equal(t, 8, nn.NumElements(m))
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(hparams.Hyperparameters{"model": "transformer"})
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Contains(t, err.Error(), `"transformer"`)

	_, err = Build(hparams.Hyperparameters{"model": 3})
	assert.ErrorIs(t, err, hparams.ErrWrongType)

	_, err = Build(hparams.Hyperparameters{"model": "mlp", "size": 0, "width": 1, "depth": 1})
	var cfgErr *nn.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "building mlp")

	_, err = Build(hparams.Hyperparameters{"model": "mlp", "size": int64(1) << 40, "width": 1 << 20, "depth": 1})
	assert.ErrorAs(t, err, &cfgErr)

	_, err = Build(hparams.Hyperparameters{"model": "linear", "in_features": 1 << 30, "out_features": 1 << 30})
	assert.ErrorIs(t, err, tensor.ErrTooLarge)
}

func TestRegister(t *testing.T) {
	assert.Panics(t, func() { Register("mlp", Build) })
	assert.Panics(t, func() { Register("empty", nil) })

	_, err := Lookup("empty")
	assert.ErrorIs(t, err, ErrUnknownModel)
}
