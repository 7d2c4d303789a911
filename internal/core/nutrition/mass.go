package nutrition

import (
	"math"
	"strings"
)

const gramsPerOunce = 28.3495

// unitAliases 單位別名 → 標準單位
var unitAliases = map[string]string{
	"g": "g", "gr": "g", "gram": "g", "grams": "g", "gramme": "g", "grammes": "g",
	"kg": "kg", "kgs": "kg", "kilogram": "kg", "kilograms": "kg",
	"mg": "mg", "milligram": "mg", "milligrams": "mg",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"cl": "cl", "dl": "dl",
	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"fl oz": "floz", "fl. oz": "floz", "fluid ounce": "floz", "fluid ounces": "floz", "floz": "floz",
	"c": "cup", "cup": "cup", "cups": "cup",
	"tbsp": "tbsp", "tbsps": "tbsp", "tbs": "tbsp", "tbl": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"tsp": "tsp", "tsps": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"pt": "pint", "pint": "pint", "pints": "pint",
	"qt": "quart", "quart": "quart", "quarts": "quart",
	"gal": "gallon", "gallon": "gallon", "gallons": "gallon",
	"stick": "stick", "sticks": "stick",
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"sprig": "sprig", "sprigs": "sprig",
	"bunch": "bunch", "bunches": "bunch",
	"each": "each", "ea": "each", "whole": "each", "piece": "each", "pieces": "each",
	"pc": "each", "pcs": "each", "large": "each", "medium": "each", "small": "each",
	"clove": "each", "cloves": "each", "slice": "each", "slices": "each",
	"fillet": "each", "fillets": "each", "head": "each", "heads": "each",
	"ear": "each", "ears": "each", "stalk": "each", "stalks": "each",
	"leaf": "each", "leaves": "each",
	"can": "package", "cans": "package", "package": "package", "packages": "package",
	"pkg": "package", "pkgs": "package", "jar": "package", "jars": "package",
	"box": "package", "boxes": "package", "bag": "package", "bags": "package",
	"packet": "package", "packets": "package", "envelope": "package",
}

// unitGrams 以水為基準的直接換算
var unitGrams = map[string]float64{
	"g":      1,
	"kg":     1000,
	"mg":     0.001,
	"oz":     gramsPerOunce,
	"lb":     453.592,
	"ml":     1,
	"cl":     10,
	"dl":     100,
	"l":      1000,
	"floz":   29.5735,
	"cup":    240,
	"tbsp":   15,
	"tsp":    5,
	"pint":   473.176,
	"quart":  946.353,
	"gallon": 3785.41,
	"stick":  113,
}

// fallbackGrams 沒有品項資料時的通用估計
var fallbackGrams = map[string]float64{
	"each":  30,
	"pinch": 0.5,
	"dash":  0.5,
	"sprig": 2,
	"bunch": 85,
}

// CanonicalUnit 回傳標準單位名稱；無法辨識時回傳空字串。
// "T" 為湯匙、"t" 為茶匙，其餘不分大小寫。
func CanonicalUnit(unit string) string {
	unit = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(unit), "."))
	switch unit {
	case "T", "Tb", "Tbsp", "TB":
		return "tbsp"
	case "t":
		return "tsp"
	}
	return unitAliases[strings.ToLower(unit)]
}

// EstimateGrams 依單位、品項密度與單顆重量估算克數；結果非負且與數量成正比
func EstimateGrams(key, unit string, qty float64) float64 {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0
	}

	u := CanonicalUnit(unit)
	switch u {
	case "cup", "tbsp", "tsp":
		if perCup, ok := cupGrams[key]; ok {
			switch u {
			case "tbsp":
				return qty * perCup / 16
			case "tsp":
				return qty * perCup / 48
			default:
				return qty * perCup
			}
		}
	case "stick":
		// 奶油以條計時沿用單顆重量
		if w, ok := eachGrams[key]; ok {
			return qty * w
		}
	}

	if g, ok := unitGrams[u]; ok {
		return qty * g
	}

	if u == "each" {
		if w, ok := eachGrams[key]; ok {
			return qty * w
		}
	}
	if g, ok := fallbackGrams[u]; ok {
		return qty * g
	}
	if u == "package" {
		return 0
	}
	return qty * gramsPerOunce
}
