package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geofusion-service/internal/domain"
	"github.com/geofusion-service/internal/usecase"
)

func render(t *testing.T, layer string, tags map[string]string, clusterSize int, tr usecase.Translations) (string, string) {
	t.Helper()
	def, ok := domain.LookupLayer(layer)
	if !ok {
		def = usecase.PinLayerDefinition
	}
	tmpl, ok := usecase.DefaultTooltipTemplates()[def.Kind]
	require.True(t, ok, "template for %s", def.Kind)
	return tmpl(usecase.TemplateInput{Layer: def, Tags: tags, ClusterSize: clusterSize, Translations: tr})
}

func TestTooltipTemplates_MissingFieldsRenderNothing(t *testing.T) {
	markup, class := render(t, domain.LayerRestaurant, map[string]string{"name": "Chez Paul"}, 1, nil)

	assert.Equal(t, "tooltip-card", class)
	assert.Contains(t, markup, `<div class="title">Chez Paul</div>`)
	assert.NotContains(t, markup, `class="field"`)
	assert.NotContains(t, markup, `class="desc"`)
	assert.NotContains(t, markup, `class="tags-list"`)
}

func TestTooltipTemplates_EscapesValues(t *testing.T) {
	markup, _ := render(t, domain.LayerChurch, map[string]string{
		"name":     `<script>alert("x")</script>`,
		"religion": "christian",
	}, 1, nil)

	assert.NotContains(t, markup, "<script>")
	assert.Contains(t, markup, "&lt;script&gt;")
	assert.Contains(t, markup, "Religion")
}

func TestTooltipTemplates_FallbackTitle(t *testing.T) {
	markup, _ := render(t, domain.LayerHotel, map[string]string{"stars": "4"}, 1, nil)
	assert.Contains(t, markup, "Hôtel")

	markup, _ = render(t, domain.LayerHotel, map[string]string{}, 1, usecase.Translations{"hotel": "Hotel"})
	assert.Contains(t, markup, `<div class="title">Hotel</div>`)
}

func TestTooltipTemplates_TagList(t *testing.T) {
	markup, _ := render(t, domain.LayerGreen, map[string]string{
		"name":          "Square du Temple",
		"leisure":       "park",
		"diet:vegan":    "yes;only",
		"phone":         "+33 1",
		"opening_hours": "24/7",
	}, 1, usecase.Translations{"yes": "oui"})

	assert.Contains(t, markup, `<div class="type">park</div>`)
	assert.Contains(t, markup, `<span class="label">Diet vegan</span><span class="value">Oui, Only</span>`)
	assert.Contains(t, markup, `<span class="label">Leisure</span>`)
	assert.NotContains(t, markup, "+33 1", "excluded keys stay out of the tag list")
}

func TestTooltipTemplates_FoodClusterSummary(t *testing.T) {
	tags := map[string]string{"shop": "bakery", "name": "Du Pain et des Idées", "speciality": "pain des amis"}

	markup, _ := render(t, domain.FoodLayerName("bakery"), tags, 3, nil)
	assert.Contains(t, markup, "3 × Boulangerie")
	assert.NotContains(t, markup, "Du Pain")

	markup, _ = render(t, domain.FoodLayerName("bakery"), tags, 3, usecase.Translations{
		"number_cluster": "{count} {type}s",
		"bakery":         "bakerie",
	})
	assert.Contains(t, markup, "3 bakeries")
}

func TestTooltipTemplates_FoodSingle(t *testing.T) {
	markup, _ := render(t, domain.FoodLayerName("bakery"), map[string]string{
		"shop":             "bakery",
		"name":             "Du Pain et des Idées",
		"addr:housenumber": "34",
		"addr:street":      "Rue Yves Toudic",
		"addr:city":        "Paris",
		"speciality":       "pain des amis",
	}, 1, nil)

	assert.Contains(t, markup, "Du Pain et des Idées")
	assert.Contains(t, markup, `<span class="value">34, Rue Yves Toudic, Paris</span>`)
	assert.Contains(t, markup, `<span class="label">Adresse</span>`)
	assert.Contains(t, markup, "pain des amis")
}

func TestTooltipTemplates_Pin(t *testing.T) {
	markup, class := render(t, domain.PinLayerName, nil, 1, usecase.Translations{"position": "Votre position"})
	assert.Equal(t, "tooltip-pin", class)
	assert.Equal(t, `<div class="title">Votre position</div>`, markup)
}

func TestTranslations_Humanize(t *testing.T) {
	tr := usecase.Translations{"outdoor": "extérieur"}
	assert.Equal(t, "Extérieur seating", tr.Humanize("outdoor_seating"))
	assert.Equal(t, "Wheelchair", tr.Humanize("wheelchair"))
	assert.Equal(t, "Contact phone", tr.Humanize("contact:phone"))
}
