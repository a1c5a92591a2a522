package usecase

import (
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/geofusion-service/internal/domain"
)

const (
	tooltipClassCard = "tooltip-card"
	tooltipClassPin  = "tooltip-pin"

	defaultFoodLabel     = "Commerce alimentaire"
	defaultClusterFormat = "{count} × {type}"
)

// Translations - ключ -> перевод для текущего языка UI
type Translations map[string]string

// T возвращает перевод или fallback
func (t Translations) T(key, fallback string) string {
	if v, ok := t[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Humanize переводит ключ OSM по частям (outdoor_seating -> "Outdoor seating")
func (t Translations) Humanize(key string) string {
	if v, ok := t[key]; ok && v != "" {
		return v
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == ':' || r == '_' })
	for i, p := range parts {
		parts[i] = t.T(p, p)
	}
	return capitalize(strings.Join(parts, " "))
}

// TemplateInput - все, от чего зависит подсказка
type TemplateInput struct {
	Layer        domain.LayerDefinition
	Tags         map[string]string
	ClusterSize  int
	Translations Translations
}

// TooltipTemplate - чистая функция (tags, translations) -> разметка
type TooltipTemplate func(in TemplateInput) (markup string, class string)

// DefaultTooltipTemplates - таблица шаблонов по варианту слоя
func DefaultTooltipTemplates() map[domain.LayerKind]TooltipTemplate {
	return map[domain.LayerKind]TooltipTemplate{
		domain.LayerKindRestaurant: restaurantTemplate,
		domain.LayerKindChurch:     churchTemplate,
		domain.LayerKindHotel:      hotelTemplate,
		domain.LayerKindGreen:      greenTemplate,
		domain.LayerKindWater:      waterTemplate,
		domain.LayerKindFood:       foodTemplate,
		domain.LayerKindFoodShop:   foodTemplate,
		domain.LayerKindPin:        pinTemplate,
	}
}

// tagListExcluded - ключи, которые не попадают в общий список тегов
var tagListExcluded = map[string]struct{}{
	"geometry": {}, "features": {}, "id": {}, "layer": {}, "type": {},
	"name": {}, "brand": {}, "shop": {}, "amenity": {},
	"addr:housenumber": {}, "addr:street": {}, "addr:postcode": {}, "addr:city": {},
	"contact:housenumber": {}, "contact:street": {}, "contact:postcode": {}, "contact:city": {},
	"phone": {}, "contact:phone": {}, "email": {}, "contact:email": {},
	"website": {}, "contact:website": {}, "opening_hours": {}, "delivery": {}, "takeaway": {},
}

type markupBuilder struct {
	b  strings.Builder
	tr Translations
}

func (m *markupBuilder) title(text string) {
	if text == "" {
		return
	}
	m.b.WriteString(`<div class="title">`)
	m.b.WriteString(html.EscapeString(text))
	m.b.WriteString(`</div>`)
}

func (m *markupBuilder) typeLine(text string) {
	if text == "" {
		return
	}
	m.b.WriteString(`<div class="type">`)
	m.b.WriteString(html.EscapeString(text))
	m.b.WriteString(`</div>`)
}

// field ничего не пишет для пустого значения
func (m *markupBuilder) field(labelKey, labelFallback, value string) {
	if value == "" {
		return
	}
	label := m.tr.T(labelKey, labelFallback)
	if label == "" {
		label = m.tr.Humanize(labelKey)
	}
	m.b.WriteString(`<div class="field"><span class="label">`)
	m.b.WriteString(html.EscapeString(label))
	m.b.WriteString(`</span><span class="value">`)
	m.b.WriteString(html.EscapeString(value))
	m.b.WriteString(`</span></div>`)
}

func (m *markupBuilder) desc(text string) {
	if text == "" {
		return
	}
	m.b.WriteString(`<div class="desc">`)
	m.b.WriteString(html.EscapeString(text))
	m.b.WriteString(`</div>`)
}

// tagList - остальные теги по алфавиту, значения через ';' переводятся по частям
func (m *markupBuilder) tagList(tags map[string]string, extraExcluded ...string) {
	skip := make(map[string]struct{}, len(extraExcluded))
	for _, k := range extraExcluded {
		skip[k] = struct{}{}
	}

	keys := make([]string, 0, len(tags))
	for k, v := range tags {
		if v == "" {
			continue
		}
		if _, ok := tagListExcluded[k]; ok {
			continue
		}
		if _, ok := skip[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	m.b.WriteString(`<div class="tags-list">`)
	for _, k := range keys {
		parts := strings.Split(tags[k], ";")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			values = append(values, capitalize(m.tr.T(p, p)))
		}
		m.b.WriteString(`<div class="field"><span class="label">`)
		m.b.WriteString(html.EscapeString(m.tr.Humanize(k)))
		m.b.WriteString(`</span><span class="value">`)
		m.b.WriteString(html.EscapeString(strings.Join(values, ", ")))
		m.b.WriteString(`</span></div>`)
	}
	m.b.WriteString(`</div>`)
}

func (m *markupBuilder) buttons(withEdit bool) {
	m.b.WriteString(`<button class="btn-go">`)
	m.b.WriteString(html.EscapeString(m.tr.T("go_here", "Y aller")))
	m.b.WriteString(`</button>`)
	if withEdit {
		m.b.WriteString(`<button class="btn-edit">`)
		m.b.WriteString(html.EscapeString(m.tr.T("edit", "Modifier")))
		m.b.WriteString(`</button>`)
	}
}

func (m *markupBuilder) String() string {
	return m.b.String()
}

func restaurantTemplate(in TemplateInput) (string, string) {
	t := in.Tags
	m := &markupBuilder{tr: in.Translations}
	m.title(first(t["name"], in.Layer.FallbackName))
	m.field("phone", "", first(t["phone"], t["contact:phone"]))
	m.field("hours", "", t["opening_hours"])
	m.field("cuisine", "", t["cuisine"])
	m.desc(t["description"])
	m.tagList(t, "cuisine", "description")
	m.buttons(true)
	return m.String(), tooltipClassCard
}

func churchTemplate(in TemplateInput) (string, string) {
	t := in.Tags
	m := &markupBuilder{tr: in.Translations}
	m.title(first(t["name"], in.Translations.T("church", in.Layer.FallbackName)))
	m.field("religion", "", t["religion"])
	m.field("denomination", "", first(t["denomination"], t["denomination:wikidata"]))
	m.field("building", "", first(t["building"], t["building:part"]))
	m.field("phone", "", first(t["phone"], t["contact:phone"]))
	m.field("email", "", first(t["email"], t["contact:email"]))
	m.field("website", "", first(t["website"], t["contact:website"]))
	m.field("service_times", "", t["service_times"])
	m.tagList(t, "religion", "denomination", "denomination:wikidata", "building", "building:part", "service_times")
	m.buttons(true)
	return m.String(), tooltipClassCard
}

func hotelTemplate(in TemplateInput) (string, string) {
	t := in.Tags
	m := &markupBuilder{tr: in.Translations}
	m.title(first(t["name"], in.Translations.T("hotel", in.Layer.FallbackName)))
	m.field("stars", "", first(t["stars"], t["stars:official"]))
	m.field("phone", "", first(t["phone"], t["contact:phone"]))
	m.field("email", "", first(t["email"], t["contact:email"]))
	m.field("website", "", first(t["website"], t["contact:website"]))
	m.field("openingHours", "", t["opening_hours"])
	m.field("checkin", "", t["checkin"])
	m.field("checkout", "", t["checkout"])
	m.tagList(t, "stars", "stars:official", "checkin", "checkout")
	m.buttons(true)
	return m.String(), tooltipClassCard
}

func greenTemplate(in TemplateInput) (string, string) {
	t := in.Tags
	m := &markupBuilder{tr: in.Translations}
	m.title(t["name"])
	m.typeLine(first(t["type"], t["natural"], t["leisure"], t["landuse"], in.Translations.T("green", in.Layer.Label)))
	m.tagList(t)
	m.buttons(true)
	return m.String(), tooltipClassCard
}

func waterTemplate(in TemplateInput) (string, string) {
	t := in.Tags
	m := &markupBuilder{tr: in.Translations}
	m.title(t["name"])
	m.typeLine(first(t["type"], t["natural"], t["waterway"], in.Translations.T("water", in.Layer.Label)))
	m.tagList(t)
	m.buttons(true)
	return m.String(), tooltipClassCard
}

func pinTemplate(in TemplateInput) (string, string) {
	m := &markupBuilder{tr: in.Translations}
	m.title(in.Translations.T("position", "Position"))
	return m.String(), tooltipClassPin
}

// foodTemplate - для кластера из нескольких объектов только сводка
func foodTemplate(in TemplateInput) (string, string) {
	t := in.Tags
	key := in.Layer.Subtype
	if key == "" {
		key = in.Layer.Name
	}
	genericLabel := in.Translations.T(key, first(in.Layer.Label, defaultFoodLabel))

	m := &markupBuilder{tr: in.Translations}
	if in.ClusterSize > 1 {
		format := in.Translations.T("number_cluster", defaultClusterFormat)
		summary := strings.NewReplacer(
			"{type}", genericLabel,
			"{count}", strconv.Itoa(in.ClusterSize),
		).Replace(format)
		m.title(summary)
		m.buttons(true)
		return m.String(), tooltipClassCard
	}

	m.title(first(t["name"], genericLabel))
	m.field("type", "Type", first(t["shop"], t["amenity"], key))
	m.field("brand", "Enseigne", t["brand"])
	m.field("address", "Adresse", joinNonEmpty(", ",
		first(t["addr:housenumber"], t["contact:housenumber"]),
		first(t["addr:street"], t["contact:street"]),
		first(t["addr:postcode"], t["contact:postcode"]),
		first(t["addr:city"], t["contact:city"]),
	))
	m.field("phone", "Téléphone", first(t["phone"], t["contact:phone"]))
	m.field("email", "Email", first(t["email"], t["contact:email"]))
	m.field("website", "Site web", first(t["website"], t["contact:website"]))
	m.field("openingHours", "Horaires d'ouverture", t["opening_hours"])
	m.field("delivery", "Livraison", t["delivery"])
	m.field("takeaway", "À emporter", t["takeaway"])

	var extra []string
	if st, ok := domain.LookupFoodSubtype(in.Layer.Subtype); ok {
		for _, f := range st.Fields {
			m.field(f, "", t[f])
		}
		extra = st.Fields
	}
	m.tagList(t, extra...)
	m.buttons(true)
	return m.String(), tooltipClassCard
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
