package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "montres-connectees", slugify("Montres Connectees"))
	assert.Equal(t, "high-tech", slugify("  High-Tech  "))
	assert.Equal(t, "jeux-video-2024", slugify("Jeux Video 2024"))
	// Les caractères hors [a-z0-9-] sont retirés
	assert.Equal(t, "caf", slugify("Café"))
	assert.Equal(t, "", slugify("???"))
}
