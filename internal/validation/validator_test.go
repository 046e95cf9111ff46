package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireColumns(t *testing.T) {
	required := []string{"Cliente", "Tpv", "Markup"}

	assert.NoError(t, RequireColumns([]string{"Data", "Markup", "Tpv", "Cliente"}, required))

	err := RequireColumns([]string{"Cliente", "Valor"}, required)
	require.Error(t, err)

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"Tpv", "Markup"}, missingErr.Missing)
	assert.Equal(t, []string{"Cliente", "Valor"}, missingErr.Found)
	assert.Contains(t, err.Error(), "Tpv, Markup")
}

func TestRequireColumnsEmptyHeader(t *testing.T) {
	err := RequireColumns(nil, []string{"Cliente"})

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"Cliente"}, missingErr.Missing)
}

func TestIndex(t *testing.T) {
	index, duplicates := Index([]string{"Cliente", "Tpv", "Cliente"})

	assert.Equal(t, 0, index["Cliente"])
	assert.Equal(t, 1, index["Tpv"])
	assert.Equal(t, []string{"Cliente"}, duplicates)
	assert.True(t, index.Has("Tpv"))
	assert.False(t, index.Has("Markup"))
}
