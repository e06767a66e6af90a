package serialization

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/born-ml/hparamfile/internal/hparams"
	"github.com/born-ml/hparamfile/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestWriteSafeTensors(t *testing.T) {
	cfg := nn.MLPConfig{Size: 3, Width: 2, Depth: 1}
	model := newTrainedMLP(t, cfg, 8)
	h := hparams.Hyperparameters{"size": 3, "width": 2, "depth": 1, "use_tanh": false}

	var buf bytes.Buffer
	require.NoError(t, WriteSafeTensors(&buf, model, h))

	data := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(data[:8])
	header := data[8 : 8+headerSize]
	payload := data[8+headerSize:]
	require.True(t, gjson.ValidBytes(header))

	doc := gjson.ParseBytes(header)
	assert.Equal(t, "3", doc.Get("__metadata__.size").String())
	assert.Equal(t, "false", doc.Get("__metadata__.use_tanh").String())

	// Alphabetical order puts the biases before the weights.
	w := doc.Get(`layers\.0\.weight`)
	assert.Equal(t, "F32", w.Get("dtype").String())
	assert.Equal(t, `[2,3]`, w.Get("shape").Raw)
	assert.Equal(t, int64(8), w.Get("data_offsets.0").Int())
	assert.Equal(t, int64(32), w.Get("data_offsets.1").Int())
	assert.Equal(t, int64(8+24+4+8), int64(len(payload)))

	first := math.Float32frombits(binary.LittleEndian.Uint32(payload[8:12]))
	assert.Equal(t, model.Layers()[0].Weight().Tensor().AsFloat32()[0], first)
}

func TestSaveSafeTensorsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	model := newTrainedMLP(t, nn.MLPConfig{Size: 2, Width: 2, Depth: 1, DType: "float16"}, 2)
	require.NoError(t, SaveSafeTensorsFile(path, model, nil))
	assert.FileExists(t, path)
}
