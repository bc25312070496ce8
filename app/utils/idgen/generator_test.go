package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureID(t *testing.T) {
	id, err := GenerateSecureID("puml", 24)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "puml_"))
	assert.Len(t, id, len("puml_")+24)
	assert.True(t, ValidateIDFormat(id, "puml"))

	other, err := GenerateSecureID("puml", 24)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestValidateIDFormat(t *testing.T) {
	assert.True(t, ValidateIDFormat("conv_abc-123_XYZ", "conv"))
	assert.False(t, ValidateIDFormat("conv_", "conv"))
	assert.False(t, ValidateIDFormat("puml_abc", "conv"))
	assert.False(t, ValidateIDFormat("conv_abc!", "conv"))
}
