package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSepaQR(t *testing.T) {
	qr, err := GenerateSepaQR("FR7630006000011234567890189", "AGRIFRPP", "Boutique Test", "RETRAIT-42", 125.50)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}

func TestGenerateDropoffQR(t *testing.T) {
	qr, err := GenerateDropoffQR("ret-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}
