package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benchwise/labstock/internal/models"
)

func TestDefaultTypeTemplates_CoverEveryType(t *testing.T) {
	templates := DefaultTypeTemplates()

	for _, mt := range models.MaterialTypes {
		tpl, ok := templates[mt]
		assert.True(t, ok, "missing template for %q", mt)
		assert.NotEmpty(t, tpl.DefaultUnit, "type %q", mt)
		assert.NotEmpty(t, tpl.DefaultStorage, "type %q", mt)
	}
}

func TestTypeTemplates_GetFallsBackToOther(t *testing.T) {
	templates := DefaultTypeTemplates()

	tpl := templates.Get(models.TypePlasmid)
	assert.Equal(t, "µg", tpl.DefaultUnit)
	assert.Equal(t, "-20°C", tpl.DefaultStorage)

	// unknown types resolve to the catch-all template
	assert.Equal(t, templates[models.TypeOther], templates.Get("glassware"))
}
