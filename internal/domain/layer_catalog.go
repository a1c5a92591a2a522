package domain

import "sort"

const (
	LayerWater      = "water"
	LayerGreen      = "green"
	LayerRestaurant = "restaurant"
	LayerChurch     = "church"
	LayerHotel      = "hotel"
	LayerFood       = "food"

	// PinLayerName - слой маркера позиции пользователя, не запрашивается
	PinLayerName = "pin"

	FoodLayerPrefix = "food:"
)

// FoodSubtype - категория продуктового магазина и ее OSM тег
type FoodSubtype struct {
	Key    string
	Label  string
	TagKey string   // shop или amenity
	Fields []string // дополнительные теги для подсказки
}

// FoodSubtypes - порядок определяет порядок слоев food:<subtype>
var FoodSubtypes = []FoodSubtype{
	{Key: "bakery", Label: "Boulangerie", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "butcher", Label: "Boucherie", TagKey: "shop", Fields: []string{"meat", "speciality"}},
	{Key: "greengrocer", Label: "Primeur", TagKey: "shop", Fields: []string{"fruits", "vegetables"}},
	{Key: "supermarket", Label: "Supermarché", TagKey: "shop", Fields: []string{"aisles"}},
	{Key: "convenience", Label: "Supérette", TagKey: "shop"},
	{Key: "kiosk", Label: "Kiosque", TagKey: "shop"},
	{Key: "cafe", Label: "Café", TagKey: "amenity"},
	{Key: "coffee_shop", Label: "Coffee Shop", TagKey: "shop"},
	{Key: "tea", Label: "Salon de thé", TagKey: "shop"},
	{Key: "restaurant", Label: "Restaurant", TagKey: "amenity", Fields: []string{"cuisine"}},
	{Key: "fast_food", Label: "Fast Food", TagKey: "amenity", Fields: []string{"cuisine"}},
	{Key: "pub", Label: "Pub", TagKey: "amenity"},
	{Key: "bar", Label: "Bar", TagKey: "amenity"},
	{Key: "food_court", Label: "Aire de restauration", TagKey: "amenity"},
	{Key: "ice_cream", Label: "Glacier", TagKey: "amenity", Fields: []string{"flavors"}},
	{Key: "chocolate", Label: "Chocolaterie", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "sweet_shop", Label: "Confiserie", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "wine_shop", Label: "Caviste", TagKey: "shop", Fields: []string{"wines"}},
	{Key: "beer", Label: "Magasin de bières", TagKey: "shop", Fields: []string{"beers"}},
	{Key: "spirits", Label: "Spiritueux", TagKey: "shop", Fields: []string{"spirits"}},
	{Key: "deli", Label: "Épicerie fine", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "cheese", Label: "Fromagerie", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "seafood", Label: "Poissonnerie", TagKey: "shop", Fields: []string{"seafood"}},
	{Key: "bakery_shop", Label: "Pâtisserie", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "juice_bar", Label: "Bar à jus", TagKey: "amenity", Fields: []string{"juices"}},
	{Key: "milk", Label: "Laiterie", TagKey: "shop", Fields: []string{"dairy"}},
	{Key: "honey", Label: "Miel", TagKey: "shop", Fields: []string{"products"}},
	{Key: "organic", Label: "Magasin bio", TagKey: "shop", Fields: []string{"products"}},
	{Key: "spices", Label: "Épices", TagKey: "shop", Fields: []string{"products"}},
	{Key: "nuts", Label: "Noix et fruits secs", TagKey: "shop", Fields: []string{"products"}},
	{Key: "pasta", Label: "Pâtes", TagKey: "shop", Fields: []string{"products"}},
	{Key: "bakery_cafe", Label: "Boulangerie-Café", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "sandwich", Label: "Sandwicherie", TagKey: "shop", Fields: []string{"ingredients"}},
	{Key: "salad", Label: "Saladerie", TagKey: "shop", Fields: []string{"ingredients"}},
	{Key: "butcher_shop", Label: "Charcuterie", TagKey: "shop", Fields: []string{"meat", "speciality"}},
	{Key: "dessert", Label: "Desserts", TagKey: "shop", Fields: []string{"speciality"}},
	{Key: "yogurt", Label: "Yaourterie", TagKey: "shop", Fields: []string{"flavors"}},
	{Key: "ice_cream_parlor", Label: "Crèmerie", TagKey: "shop", Fields: []string{"flavors"}},
	{Key: "bakery_pastry", Label: "Boulangerie-Pâtisserie", TagKey: "shop", Fields: []string{"speciality"}},
}

var allElementTypes = []ElementType{ElementNode, ElementWay, ElementRelation}
var areaElementTypes = []ElementType{ElementWay, ElementRelation}

var (
	catalog      map[string]LayerDefinition
	catalogOrder []string
	subtypeIndex map[string]FoodSubtype
)

func init() {
	defs := []LayerDefinition{
		{
			Name:         LayerWater,
			Kind:         LayerKindWater,
			Label:        "Points d'eau",
			Shape:        QueryShapeBBox,
			ElementTypes: areaElementTypes,
			Predicates: []TagPredicate{
				{Key: "waterway", Value: "river|stream|canal|drain", Regex: true},
			},
			EntityTypes:  []string{"water"},
			FallbackName: "Water",
		},
		{
			Name:         LayerGreen,
			Kind:         LayerKindGreen,
			Label:        "Espaces verts",
			Shape:        QueryShapeBBox,
			ElementTypes: areaElementTypes,
			Predicates: []TagPredicate{
				{Key: "leisure", Value: "park|garden|nature_reserve", Regex: true},
				{Key: "landuse", Value: "forest|grass|meadow", Regex: true},
				{Key: "natural", Value: "wood"},
			},
			EntityTypes:  []string{"green"},
			FallbackName: "Green space",
		},
		{
			Name:         LayerRestaurant,
			Kind:         LayerKindRestaurant,
			Label:        "Restaurants",
			Shape:        QueryShapeAround,
			ElementTypes: allElementTypes,
			Predicates:   []TagPredicate{{Key: "amenity", Value: "restaurant"}},
			EntityTypes:  []string{"restaurant"},
			FallbackName: "Restaurant",
		},
		{
			Name:         LayerChurch,
			Kind:         LayerKindChurch,
			Label:        "Églises & Cathédrales",
			Shape:        QueryShapeAround,
			ElementTypes: allElementTypes,
			Predicates:   []TagPredicate{{Key: "amenity", Value: "place_of_worship"}},
			EntityTypes:  []string{"church"},
			FallbackName: "Église",
			Clustered:    true,
		},
		{
			Name:         LayerHotel,
			Kind:         LayerKindHotel,
			Label:        "Hôtels",
			Shape:        QueryShapeAround,
			ElementTypes: allElementTypes,
			Predicates:   []TagPredicate{{Key: "tourism", Value: "hotel"}},
			EntityTypes:  []string{"hotel"},
			FallbackName: "Hôtel",
			Clustered:    true,
		},
	}

	shopValues, amenityValues := "", ""
	foodTypes := make([]string, 0, len(FoodSubtypes))
	for _, st := range FoodSubtypes {
		foodTypes = append(foodTypes, st.Key)
		if st.TagKey == "amenity" {
			amenityValues = joinAlt(amenityValues, st.Key)
		} else {
			shopValues = joinAlt(shopValues, st.Key)
		}
	}
	for _, st := range FoodSubtypes {
		defs = append(defs, LayerDefinition{
			Name:         FoodLayerName(st.Key),
			Kind:         LayerKindFoodShop,
			Label:        st.Label,
			Shape:        QueryShapeAround,
			ElementTypes: allElementTypes,
			Predicates:   []TagPredicate{{Key: st.TagKey, Value: st.Key}},
			EntityTypes:  []string{st.Key},
			FallbackName: st.Label,
			Clustered:    true,
			Subtype:      st.Key,
		})
	}
	defs = append(defs, LayerDefinition{
		Name:         LayerFood,
		Kind:         LayerKindFood,
		Label:        "Commerce alimentaire",
		Shape:        QueryShapeAround,
		ElementTypes: allElementTypes,
		Predicates: []TagPredicate{
			{Key: "shop", Value: shopValues, Regex: true},
			{Key: "amenity", Value: amenityValues, Regex: true},
		},
		EntityTypes:  foodTypes,
		FallbackName: "Commerce alimentaire",
		Clustered:    true,
	})

	catalog = make(map[string]LayerDefinition, len(defs))
	catalogOrder = make([]string, 0, len(defs))
	for _, d := range defs {
		catalog[d.Name] = d
		catalogOrder = append(catalogOrder, d.Name)
	}

	subtypeIndex = make(map[string]FoodSubtype, len(FoodSubtypes))
	for _, st := range FoodSubtypes {
		subtypeIndex[st.Key] = st
	}
}

func joinAlt(acc, v string) string {
	if acc == "" {
		return v
	}
	return acc + "|" + v
}

// LookupLayer ищет определение тематического слоя по имени
func LookupLayer(name string) (LayerDefinition, bool) {
	d, ok := catalog[name]
	return d, ok
}

// LookupFoodSubtype ищет подтип магазина по ключу
func LookupFoodSubtype(key string) (FoodSubtype, bool) {
	st, ok := subtypeIndex[key]
	return st, ok
}

// Layers возвращает каталог в порядке отрисовки (снизу вверх), без pin
func Layers() []LayerDefinition {
	out := make([]LayerDefinition, 0, len(catalogOrder))
	for _, name := range catalogOrder {
		out = append(out, catalog[name])
	}
	return out
}

// DrawOrder - имена всех слоев снизу вверх, pin последним
func DrawOrder() []string {
	out := make([]string, 0, len(catalogOrder)+1)
	out = append(out, catalogOrder...)
	return append(out, PinLayerName)
}

// LayerNames - отсортированные имена слоев каталога
func LayerNames() []string {
	out := make([]string, len(catalogOrder))
	copy(out, catalogOrder)
	sort.Strings(out)
	return out
}
