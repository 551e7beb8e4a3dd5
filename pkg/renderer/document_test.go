package renderer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sizediff/pkg/renderer"
)

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	c := loadComparison(t)
	doc := renderer.BuildDocument(c.update, c.main, c.delta)

	assert.Equal(t, renderer.DocumentTitle, doc.Title)
	require.Len(t, doc.Rows, 3)

	minimal := doc.Rows[2]
	assert.Equal(t, 2, minimal.Index)
	assert.Equal(t, "Minimal_c", minimal.Filename)
	require.Len(t, minimal.Categories, 4)

	text := minimal.Categories[0]
	assert.Equal(t, "text", text.Name)
	assert.InDelta(t, 8112.0, text.From, 0)
	assert.InDelta(t, 8000.0, text.To, 0)
	require.NotNil(t, text.IncreasePercent)
	assert.InDelta(t, -1.38, *text.IncreasePercent, 0.01)
	assert.Equal(t, "-1.38", text.Increase)

	bss := minimal.Categories[2]
	assert.Nil(t, bss.IncreasePercent)
	assert.Equal(t, "nan", bss.Increase)

	total := minimal.Categories[3]
	assert.Equal(t, "total", total.Name)
	assert.Equal(t, "dec", total.Column)
}

func TestEncodeJSON(t *testing.T) {
	t.Parallel()

	c := loadComparison(t)

	data, err := renderer.EncodeJSON(renderer.BuildDocument(c.update, c.main, c.delta))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	rows, ok := decoded["rows"].([]any)
	require.True(t, ok)
	assert.Len(t, rows, 3)
}

func TestValidateJSON_RejectsInvalid(t *testing.T) {
	t.Parallel()

	err := renderer.ValidateJSON([]byte(`{"title": "x", "rows": [{"index": -1, "filename": "", "categories": []}]}`))
	require.ErrorIs(t, err, renderer.ErrSchemaViolation)

	err = renderer.ValidateJSON([]byte(`{"rows": []}`))
	require.ErrorIs(t, err, renderer.ErrSchemaViolation)
}

func TestValidateJSON_AcceptsEmpty(t *testing.T) {
	t.Parallel()

	require.NoError(t, renderer.ValidateJSON([]byte(`{"title": "x", "rows": []}`)))
}

func TestEncodeYAML(t *testing.T) {
	t.Parallel()

	c := fooComparison(t)

	data, err := renderer.EncodeYAML(renderer.BuildDocument(c.update, c.main, c.delta))
	require.NoError(t, err)

	var doc renderer.Document
	require.NoError(t, yaml.Unmarshal(data, &doc))

	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "foo_c", doc.Rows[0].Filename)
	assert.Equal(t, "14.29", doc.Rows[0].Categories[3].Increase)
	assert.InDelta(t, 160.0, doc.Rows[0].Categories[3].To, 0)
}
