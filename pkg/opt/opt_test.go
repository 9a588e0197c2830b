package opt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Reading Value[float64] `json:"reading"`
	Note    Value[string]  `json:"note"`
}

func TestUnmarshal_AbsentFieldStaysUnset(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"note":"ok"}`), &p))

	assert.False(t, p.Reading.Present())
	_, ok := p.Reading.Get()
	assert.False(t, ok)

	require.True(t, p.Note.Present())
	note, ok := p.Note.Get()
	require.True(t, ok)
	assert.Equal(t, "ok", note)
}

func TestUnmarshal_NullMeansClear(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"reading":null}`), &p))

	assert.True(t, p.Reading.Present())
	_, ok := p.Reading.Get()
	assert.False(t, ok)
}

func TestUnmarshal_Value(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"reading":181.5}`), &p))

	value, ok := p.Reading.Get()
	require.True(t, ok)
	assert.Equal(t, 181.5, value)
}

func TestApply_TriState(t *testing.T) {
	initial := 150.0
	dst := &initial

	Unset[float64]().Apply(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, 150.0, *dst)

	Of(181.5).Apply(&dst)
	require.NotNil(t, dst)
	assert.Equal(t, 181.5, *dst)

	Clear[float64]().Apply(&dst)
	assert.Nil(t, dst)
}

func TestApplyValue_FallbackOnClear(t *testing.T) {
	devices := 3

	Unset[int]().ApplyValue(&devices, 0)
	assert.Equal(t, 3, devices)

	Of(5).ApplyValue(&devices, 0)
	assert.Equal(t, 5, devices)

	Clear[int]().ApplyValue(&devices, 0)
	assert.Equal(t, 0, devices)
}

func TestMarshal_ClearedAndAbsentAreNull(t *testing.T) {
	data, err := json.Marshal(patch{Reading: Of(42.0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reading":42,"note":null}`, string(data))

	data, err = json.Marshal(patch{Reading: Clear[float64]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reading":null,"note":null}`, string(data))
}
