package nutrition

import "regexp"

// profiles 每 100g 的營養素，欄位順序：kcal, fat, satFat, transFat, carbs, fiber, sugars, protein, sodium(mg)
var profiles = map[string]Macros{
	// 穀物與烘焙
	"flour_all_purpose": m(364, 1.0, 0.2, 0, 76.3, 2.7, 0.3, 10.3, 2),
	"flour_whole_wheat": m(340, 2.5, 0.4, 0, 72.0, 10.7, 0.4, 13.2, 2),
	"flour_bread":       m(361, 1.7, 0.2, 0, 72.5, 2.4, 0.3, 12.0, 2),
	"cornstarch":        m(381, 0.1, 0, 0, 91.3, 0.9, 0, 0.3, 9),
	"cornmeal":          m(370, 3.9, 0.5, 0, 79.0, 7.3, 0.6, 7.1, 35),
	"sugar_granulated":  m(387, 0, 0, 0, 100, 0, 100, 0, 1),
	"sugar_brown":       m(380, 0, 0, 0, 98.1, 0, 97.0, 0.1, 28),
	"sugar_powdered":    m(389, 0, 0, 0, 99.8, 0, 97.8, 0, 2),
	"honey":             m(304, 0, 0, 0, 82.4, 0.2, 82.1, 0.3, 4),
	"maple_syrup":       m(260, 0.1, 0, 0, 67.0, 0, 60.5, 0, 12),
	"baking_powder":     m(53, 0, 0, 0, 27.7, 0.2, 0, 0, 10600),
	"baking_soda":       m(0, 0, 0, 0, 0, 0, 0, 0, 27360),
	"yeast":             m(325, 7.6, 1.0, 0, 41.2, 26.9, 0, 40.4, 51),
	"oats_rolled":       m(389, 6.9, 1.2, 0, 66.3, 10.6, 1.0, 16.9, 2),
	"rice_white":        m(365, 0.7, 0.2, 0, 80.0, 1.3, 0.1, 7.1, 5),
	"rice_brown":        m(370, 2.9, 0.6, 0, 77.2, 3.5, 0.9, 7.9, 7),
	"pasta_dry":         m(371, 1.5, 0.3, 0, 74.7, 3.2, 2.7, 13.0, 6),
	"bread":             m(265, 3.2, 0.7, 0, 49.0, 2.7, 5.0, 9.0, 491),
	"breadcrumbs":       m(395, 5.3, 1.2, 0, 71.9, 4.5, 6.2, 13.4, 732),
	"quinoa":            m(368, 6.1, 0.7, 0, 64.2, 7.0, 0, 14.1, 5),
	"cocoa_powder":      m(228, 13.7, 8.1, 0, 57.9, 37.0, 1.8, 19.6, 21),
	"chocolate_dark":    m(546, 31.0, 19.0, 0, 61.0, 7.0, 48.0, 4.9, 24),
	"vanilla_extract":   m(288, 0.1, 0, 0, 12.7, 0, 12.7, 0.1, 9),
	"tortilla":          m(297, 7.0, 1.8, 0, 50.0, 3.5, 2.0, 8.0, 640),

	// 乳製品與蛋
	"butter":            m(717, 81.1, 51.4, 3.3, 0.1, 0, 0.1, 0.9, 11),
	"egg":               m(143, 9.5, 3.1, 0, 0.7, 0, 0.4, 12.6, 142),
	"egg_white":         m(52, 0.2, 0, 0, 0.7, 0, 0.7, 10.9, 166),
	"egg_yolk":          m(322, 26.5, 9.6, 0, 3.6, 0, 0.6, 15.9, 48),
	"milk_whole":        m(61, 3.3, 1.9, 0, 4.8, 0, 5.1, 3.2, 43),
	"milk_skim":         m(34, 0.1, 0.1, 0, 5.0, 0, 5.0, 3.4, 42),
	"cream_heavy":       m(340, 36.0, 23.0, 1.1, 2.8, 0, 2.9, 2.8, 27),
	"sour_cream":        m(198, 19.4, 10.1, 0, 4.6, 0, 3.4, 2.4, 31),
	"yogurt_plain":      m(61, 3.3, 2.1, 0, 4.7, 0, 4.7, 3.5, 46),
	"yogurt_greek":      m(97, 5.0, 2.4, 0, 3.9, 0, 3.6, 9.0, 35),
	"cheese_cheddar":    m(403, 33.1, 21.1, 1.0, 1.3, 0, 0.5, 24.9, 621),
	"cheese_mozzarella": m(280, 17.1, 10.9, 0.5, 3.1, 0, 1.0, 27.5, 627),
	"cheese_parmesan":   m(431, 28.6, 17.3, 0, 4.1, 0, 0.9, 38.5, 1529),
	"cheese_cream":      m(342, 34.2, 19.3, 1.2, 4.1, 0, 3.2, 5.9, 321),
	"cheese_feta":       m(264, 21.3, 14.9, 0, 4.1, 0, 4.1, 14.2, 917),
	"buttermilk":        m(40, 0.9, 0.5, 0, 4.8, 0, 4.8, 3.3, 105),

	// 油脂
	"oil_olive":     m(884, 100, 13.8, 0, 0, 0, 0, 0, 2),
	"oil_vegetable": m(884, 100, 7.4, 0, 0, 0, 0, 0, 0),
	"oil_coconut":   m(862, 100, 82.5, 0, 0, 0, 0, 0, 0),
	"oil_sesame":    m(884, 100, 14.2, 0, 0, 0, 0, 0, 0),
	"mayonnaise":    m(680, 74.9, 11.7, 0, 0.6, 0, 0.6, 1.0, 635),
	"peanut_butter": m(588, 50.0, 10.3, 0, 20.0, 6.0, 9.2, 25.0, 459),

	// 肉類與海鮮
	"chicken_breast": m(120, 2.6, 0.6, 0, 0, 0, 0, 22.5, 45),
	"chicken_thigh":  m(121, 4.1, 1.0, 0, 0, 0, 0, 19.7, 95),
	"chicken_whole":  m(215, 15.1, 4.3, 0, 0, 0, 0, 18.6, 70),
	"beef_ground":    m(254, 20.0, 7.7, 1.1, 0, 0, 0, 17.2, 66),
	"beef_steak":     m(201, 12.0, 4.8, 0, 0, 0, 0, 21.5, 54),
	"pork_chop":      m(172, 8.0, 2.8, 0, 0, 0, 0, 23.0, 56),
	"pork_ground":    m(263, 21.2, 7.9, 0, 0, 0, 0, 16.9, 56),
	"bacon":          m(417, 39.7, 13.3, 0, 1.4, 0, 0, 12.6, 833),
	"sausage":        m(301, 24.9, 8.9, 0, 1.7, 0, 1.0, 16.0, 760),
	"ham":            m(145, 5.5, 1.8, 0, 1.5, 0, 0, 21.0, 1203),
	"lamb":           m(282, 23.4, 10.2, 0, 0, 0, 0, 16.6, 59),
	"turkey_ground":  m(148, 8.3, 2.2, 0, 0, 0, 0, 17.5, 69),
	"salmon":         m(208, 13.4, 3.1, 0, 0, 0, 0, 20.4, 59),
	"tuna_canned":    m(116, 0.8, 0.2, 0, 0, 0, 0, 25.5, 247),
	"shrimp":         m(85, 0.5, 0.1, 0, 0, 0, 0, 20.1, 119),
	"cod":            m(82, 0.7, 0.1, 0, 0, 0, 0, 17.8, 54),
	"tofu":           m(76, 4.8, 0.7, 0, 1.9, 0.3, 0.6, 8.1, 7),

	// 豆類與堅果
	"beans_black":  m(132, 0.5, 0.1, 0, 23.7, 8.7, 0.3, 8.9, 1),
	"beans_kidney": m(127, 0.5, 0.1, 0, 22.8, 6.4, 0.3, 8.7, 1),
	"chickpeas":    m(164, 2.6, 0.3, 0, 27.4, 7.6, 4.8, 8.9, 7),
	"lentils":      m(116, 0.4, 0.1, 0, 20.1, 7.9, 1.8, 9.0, 2),
	"almonds":      m(579, 49.9, 3.8, 0, 21.6, 12.5, 4.4, 21.2, 1),
	"walnuts":      m(654, 65.2, 6.1, 0, 13.7, 6.7, 2.6, 15.2, 2),
	"pecans":       m(691, 72.0, 6.2, 0, 13.9, 9.6, 4.0, 9.2, 0),
	"peanuts":      m(567, 49.2, 6.3, 0, 16.1, 8.5, 4.7, 25.8, 18),
	"cashews":      m(553, 43.9, 7.8, 0, 30.2, 3.3, 5.9, 18.2, 12),
	"sesame_seeds": m(573, 49.7, 7.0, 0, 23.5, 11.8, 0.3, 17.7, 11),
	"coconut_milk": m(230, 23.8, 21.1, 0, 5.5, 2.2, 3.3, 2.3, 15),

	// 蔬菜
	"onion":         m(40, 0.1, 0, 0, 9.3, 1.7, 4.2, 1.1, 4),
	"garlic":        m(149, 0.5, 0.1, 0, 33.1, 2.1, 1.0, 6.4, 17),
	"shallot":       m(72, 0.1, 0, 0, 16.8, 3.2, 7.9, 2.5, 12),
	"scallion":      m(32, 0.2, 0, 0, 7.3, 2.6, 2.3, 1.8, 16),
	"leek":          m(61, 0.3, 0, 0, 14.2, 1.8, 3.9, 1.5, 20),
	"tomato":        m(18, 0.2, 0, 0, 3.9, 1.2, 2.6, 0.9, 5),
	"tomato_canned": m(32, 0.3, 0, 0, 7.3, 1.9, 4.4, 1.6, 186),
	"tomato_paste":  m(82, 0.5, 0.1, 0, 18.9, 4.1, 12.2, 4.3, 59),
	"carrot":        m(41, 0.2, 0, 0, 9.6, 2.8, 4.7, 0.9, 69),
	"celery":        m(16, 0.2, 0, 0, 3.0, 1.6, 1.3, 0.7, 80),
	"potato":        m(77, 0.1, 0, 0, 17.5, 2.2, 0.8, 2.0, 6),
	"sweet_potato":  m(86, 0.1, 0, 0, 20.1, 3.0, 4.2, 1.6, 55),
	"bell_pepper":   m(31, 0.3, 0, 0, 6.0, 2.1, 4.2, 1.0, 4),
	"jalapeno":      m(29, 0.4, 0.1, 0, 6.5, 2.8, 4.1, 0.9, 3),
	"mushroom":      m(22, 0.3, 0, 0, 3.3, 1.0, 2.0, 3.1, 5),
	"spinach":       m(23, 0.4, 0.1, 0, 3.6, 2.2, 0.4, 2.9, 79),
	"lettuce":       m(15, 0.2, 0, 0, 2.9, 1.3, 0.8, 1.4, 28),
	"cabbage":       m(25, 0.1, 0, 0, 5.8, 2.5, 3.2, 1.3, 18),
	"broccoli":      m(34, 0.4, 0, 0, 6.6, 2.6, 1.7, 2.8, 33),
	"cauliflower":   m(25, 0.3, 0.1, 0, 5.0, 2.0, 1.9, 1.9, 30),
	"zucchini":      m(17, 0.3, 0.1, 0, 3.1, 1.0, 2.5, 1.2, 8),
	"eggplant":      m(25, 0.2, 0, 0, 5.9, 3.0, 3.5, 1.0, 2),
	"cucumber":      m(15, 0.1, 0, 0, 3.6, 0.5, 1.7, 0.7, 2),
	"corn":          m(86, 1.4, 0.3, 0, 19.0, 2.7, 3.2, 3.3, 15),
	"peas":          m(81, 0.4, 0.1, 0, 14.5, 5.7, 5.7, 5.4, 5),
	"green_beans":   m(31, 0.2, 0.1, 0, 7.0, 2.7, 3.3, 1.8, 6),
	"kale":          m(49, 0.9, 0.1, 0, 8.8, 3.6, 2.3, 4.3, 38),
	"avocado":       m(160, 14.7, 2.1, 0, 8.5, 6.7, 0.7, 2.0, 7),
	"ginger":        m(80, 0.8, 0.2, 0, 17.8, 2.0, 1.7, 1.8, 13),

	// 水果
	"apple":        m(52, 0.2, 0, 0, 13.8, 2.4, 10.4, 0.3, 1),
	"banana":       m(89, 0.3, 0.1, 0, 22.8, 2.6, 12.2, 1.1, 1),
	"lemon":        m(29, 0.3, 0, 0, 9.3, 2.8, 2.5, 1.1, 2),
	"lemon_juice":  m(22, 0.2, 0, 0, 6.9, 0.3, 2.5, 0.4, 1),
	"lime_juice":   m(25, 0.1, 0, 0, 8.4, 0.4, 1.7, 0.4, 2),
	"orange":       m(47, 0.1, 0, 0, 11.8, 2.4, 9.4, 0.9, 0),
	"orange_juice": m(45, 0.2, 0, 0, 10.4, 0.2, 8.4, 0.7, 1),
	"strawberries": m(32, 0.3, 0, 0, 7.7, 2.0, 4.9, 0.7, 1),
	"blueberries":  m(57, 0.3, 0, 0, 14.5, 2.4, 10.0, 0.7, 1),
	"raisins":      m(299, 0.5, 0.1, 0, 79.2, 3.7, 59.2, 3.1, 11),

	// 調味與液體
	"soy_sauce":       m(53, 0.6, 0.1, 0, 4.9, 0.8, 0.4, 8.1, 5493),
	"fish_sauce":      m(35, 0, 0, 0, 3.6, 0, 3.6, 5.1, 7851),
	"vinegar":         m(18, 0, 0, 0, 0.04, 0, 0.04, 0, 2),
	"ketchup":         m(101, 0.1, 0, 0, 27.4, 0.3, 21.3, 1.0, 907),
	"mustard":         m(66, 4.0, 0.2, 0, 5.8, 4.0, 0.9, 4.4, 1135),
	"worcestershire":  m(78, 0, 0, 0, 19.5, 0, 10.0, 0, 980),
	"salsa":           m(36, 0.2, 0, 0, 6.6, 1.9, 4.0, 1.5, 711),
	"stock_chicken":   m(6, 0.2, 0.1, 0, 0.4, 0, 0.3, 0.6, 343),
	"stock_beef":      m(7, 0.2, 0.1, 0, 0.1, 0, 0, 1.1, 372),
	"stock_vegetable": m(5, 0.1, 0, 0, 0.9, 0, 0.4, 0.1, 300),
	"wine_red":        m(85, 0, 0, 0, 2.6, 0, 0.6, 0.1, 4),
	"wine_white":      m(82, 0, 0, 0, 2.6, 0, 1.0, 0.1, 5),
	"beer":            m(43, 0, 0, 0, 3.6, 0, 0, 0.5, 4),
	"water":           m(0, 0, 0, 0, 0, 0, 0, 0, 0),

	// 香料
	"salt":              m(0, 0, 0, 0, 0, 0, 0, 0, 38758),
	"pepper_black":      m(251, 3.3, 1.4, 0, 64.0, 25.3, 0.6, 10.4, 20),
	"cinnamon":          m(247, 1.2, 0.3, 0, 80.6, 53.1, 2.2, 4.0, 10),
	"cumin":             m(375, 22.3, 1.5, 0, 44.2, 10.5, 2.3, 17.8, 168),
	"paprika":           m(282, 12.9, 2.1, 0, 54.0, 34.9, 10.3, 14.1, 68),
	"chili_powder":      m(282, 14.3, 2.5, 0, 49.7, 34.8, 7.2, 13.5, 2867),
	"oregano":           m(265, 4.3, 1.6, 0, 68.9, 42.5, 4.1, 9.0, 25),
	"thyme":             m(101, 1.7, 0.5, 0, 24.5, 14.0, 0, 5.6, 9),
	"basil":             m(23, 0.6, 0, 0, 2.7, 1.6, 0.3, 3.2, 4),
	"parsley":           m(36, 0.8, 0.1, 0, 6.3, 3.3, 0.9, 3.0, 56),
	"cilantro":          m(23, 0.5, 0, 0, 3.7, 2.8, 0.9, 2.1, 46),
	"rosemary":          m(131, 5.9, 2.8, 0, 20.7, 14.1, 0, 3.3, 26),
	"garlic_powder":     m(331, 0.7, 0.2, 0, 72.7, 9.0, 2.4, 16.6, 60),
	"onion_powder":      m(341, 1.0, 0.2, 0, 79.1, 15.2, 6.6, 10.4, 73),
	"nutmeg":            m(525, 36.3, 25.9, 0, 49.3, 20.8, 3.0, 5.8, 16),
	"ginger_ground":     m(335, 4.2, 2.6, 0, 71.6, 14.1, 3.4, 9.0, 27),
	"turmeric":          m(312, 3.3, 1.8, 0, 67.1, 22.7, 3.2, 9.7, 27),
	"bay_leaf":          m(313, 8.4, 2.3, 0, 75.0, 26.3, 0, 7.6, 23),
	"red_pepper_flakes": m(318, 17.3, 3.3, 0, 56.6, 27.2, 10.3, 12.0, 30),
}

// spiceKeys 不套用烹調失重係數的香料
var spiceKeys = map[string]bool{
	"salt": true, "pepper_black": true, "cinnamon": true, "cumin": true,
	"paprika": true, "chili_powder": true, "oregano": true, "nutmeg": true,
	"ginger_ground": true, "turmeric": true, "bay_leaf": true,
	"red_pepper_flakes": true, "garlic_powder": true, "onion_powder": true,
	"baking_powder": true, "baking_soda": true, "cocoa_powder": true,
	"sugar_powdered": true, "yeast": true, "vanilla_extract": true,
}

// cupGrams 每杯克數；tbsp = 1/16 杯、tsp = 1/48 杯
var cupGrams = map[string]float64{
	"flour_all_purpose": 120, "flour_whole_wheat": 120, "flour_bread": 127,
	"cornstarch": 128, "cornmeal": 138, "sugar_granulated": 200,
	"sugar_brown": 220, "sugar_powdered": 120, "honey": 340, "maple_syrup": 315,
	"baking_powder": 220, "baking_soda": 221, "yeast": 144, "oats_rolled": 90,
	"rice_white": 185, "rice_brown": 190, "quinoa": 170, "pasta_dry": 100,
	"breadcrumbs": 108, "cocoa_powder": 86, "chocolate_dark": 170,
	"vanilla_extract": 208,

	"butter": 227, "milk_whole": 244, "milk_skim": 245, "cream_heavy": 238,
	"sour_cream": 230, "yogurt_plain": 245, "yogurt_greek": 227,
	"cheese_cheddar": 113, "cheese_mozzarella": 112, "cheese_parmesan": 100,
	"cheese_cream": 232, "cheese_feta": 150, "buttermilk": 245,
	"egg_white": 243, "egg_yolk": 243,

	"oil_olive": 216, "oil_vegetable": 218, "oil_coconut": 218, "oil_sesame": 218,
	"mayonnaise": 220, "peanut_butter": 258,

	"beans_black": 172, "beans_kidney": 177, "chickpeas": 164, "lentils": 198,
	"almonds": 143, "walnuts": 117, "pecans": 109, "peanuts": 146,
	"cashews": 137, "sesame_seeds": 144, "coconut_milk": 226,

	"onion": 160, "carrot": 128, "celery": 101, "tomato": 180,
	"tomato_canned": 240, "tomato_paste": 262, "spinach": 30, "lettuce": 47,
	"cabbage": 89, "broccoli": 91, "cauliflower": 107, "mushroom": 70,
	"peas": 145, "corn": 154, "bell_pepper": 149, "green_beans": 110,
	"kale": 67, "scallion": 100, "garlic": 136, "ginger": 96,

	"strawberries": 152, "blueberries": 148, "raisins": 145,
	"lemon_juice": 244, "lime_juice": 246, "orange_juice": 248,

	"water": 237, "stock_chicken": 240, "stock_beef": 240,
	"stock_vegetable": 240, "soy_sauce": 255, "fish_sauce": 288,
	"vinegar": 239, "ketchup": 240, "mustard": 250, "worcestershire": 275,
	"salsa": 259, "wine_red": 235, "wine_white": 235, "beer": 237,

	"salt": 292, "pepper_black": 110, "cinnamon": 125, "cumin": 96,
	"paprika": 110, "chili_powder": 128, "oregano": 48, "thyme": 43,
	"basil": 21, "parsley": 60, "cilantro": 16, "rosemary": 53,
	"garlic_powder": 150, "onion_powder": 110, "nutmeg": 106,
	"ginger_ground": 86, "turmeric": 144, "red_pepper_flakes": 86,
}

// eachGrams 以「個」「瓣」「片」計數時的單位重量
var eachGrams = map[string]float64{
	"egg": 50, "egg_white": 33, "egg_yolk": 17,
	"onion": 110, "garlic": 3, "shallot": 30, "scallion": 15, "leek": 89,
	"tomato": 123, "carrot": 61, "celery": 40, "potato": 213,
	"sweet_potato": 130, "bell_pepper": 119, "jalapeno": 14,
	"mushroom": 18, "zucchini": 196, "eggplant": 458, "cucumber": 301,
	"corn": 90, "avocado": 150, "lemon": 58, "orange": 131,
	"apple": 182, "banana": 118, "chicken_breast": 174, "chicken_thigh": 110,
	"bread": 28, "bacon": 28, "sausage": 68, "tortilla": 45, "bay_leaf": 0.2,
	"butter": 113, "pork_chop": 180, "beef_steak": 225,
}

// synonymRule 以正規表示式對應到營養鍵
type synonymRule struct {
	pattern *regexp.Regexp
	key     string
}

func rule(pattern, key string) synonymRule {
	return synonymRule{pattern: regexp.MustCompile(pattern), key: key}
}

// synonymRules 依序比對，越具體的規則越前面
var synonymRules = []synonymRule{
	// 複合詞優先
	rule(`\bvinegar\b`, "vinegar"),
	rule(`\bpeanut butter\b`, "peanut_butter"),
	rule(`\bbuttermilk\b`, "buttermilk"),
	rule(`\bcoconut milk\b`, "coconut_milk"),
	rule(`\bcoconut oil\b`, "oil_coconut"),
	rule(`\bcream cheese\b`, "cheese_cream"),
	rule(`\bsour cream\b`, "sour_cream"),
	rule(`\bgreek yog(h)?urt\b`, "yogurt_greek"),
	rule(`\byog(h)?urt\b`, "yogurt_plain"),
	rule(`\b(heavy|whipping|double) cream\b|\bcream\b`, "cream_heavy"),
	rule(`\begg whites?\b`, "egg_white"),
	rule(`\begg yolks?\b`, "egg_yolk"),
	rule(`\beggs?\b`, "egg"),
	rule(`\b(skim|nonfat|fat free|low fat) milk\b`, "milk_skim"),
	rule(`\bmilk\b`, "milk_whole"),
	rule(`\bbutter\b`, "butter"),

	rule(`\bgarlic powder\b`, "garlic_powder"),
	rule(`\bonion powder\b`, "onion_powder"),
	rule(`\bchil[ei] powder\b`, "chili_powder"),
	rule(`\bcocoa\b`, "cocoa_powder"),
	rule(`\bbaking powder\b`, "baking_powder"),
	rule(`\b(baking soda|bicarbonate)\b`, "baking_soda"),
	rule(`\b(ground ginger|ginger powder)\b`, "ginger_ground"),
	rule(`\b(red pepper flakes|chil[ei] flakes|crushed red pepper)\b`, "red_pepper_flakes"),
	rule(`\b(bell pepper|capsicum|red pepper|green pepper|yellow pepper)s?\b`, "bell_pepper"),
	rule(`\bjalapenos?\b`, "jalapeno"),
	rule(`\b(sea |kosher )?salt\b`, "salt"),
	rule(`\b(black )?pepper(corns?)?\b`, "pepper_black"),

	rule(`\b(whole wheat|wholemeal) flour\b`, "flour_whole_wheat"),
	rule(`\bbread flour\b`, "flour_bread"),
	rule(`\b(corn ?starch|cornflour)\b`, "cornstarch"),
	rule(`\b(cornmeal|polenta)\b`, "cornmeal"),
	rule(`\bflour\b`, "flour_all_purpose"),
	rule(`\b(brown sugar|muscovado)\b`, "sugar_brown"),
	rule(`\b(powdered|icing|confectioners'?) sugar\b`, "sugar_powdered"),
	rule(`\bsugar\b`, "sugar_granulated"),
	rule(`\bmaple syrup\b`, "maple_syrup"),
	rule(`\bhoney\b`, "honey"),
	rule(`\byeast\b`, "yeast"),
	rule(`\boats?\b|\boatmeal\b`, "oats_rolled"),
	rule(`\bbrown rice\b`, "rice_brown"),
	rule(`\brice\b`, "rice_white"),
	rule(`\bquinoa\b`, "quinoa"),
	rule(`\b(pasta|spaghetti|penne|macaroni|fettuccine|linguine|noodles?)\b`, "pasta_dry"),
	rule(`\b(bread ?crumbs|panko)\b`, "breadcrumbs"),
	rule(`\btortillas?\b`, "tortilla"),
	rule(`\b(bread|baguette|loaf)\b`, "bread"),
	rule(`\bchocolate\b`, "chocolate_dark"),
	rule(`\bvanilla\b`, "vanilla_extract"),

	rule(`\bcheddar\b`, "cheese_cheddar"),
	rule(`\bmozzarella\b`, "cheese_mozzarella"),
	rule(`\b(parmesan|parmigiano|pecorino)\b`, "cheese_parmesan"),
	rule(`\bfeta\b`, "cheese_feta"),
	rule(`\bcheese\b`, "cheese_cheddar"),

	rule(`\bolive oil\b`, "oil_olive"),
	rule(`\bsesame oil\b`, "oil_sesame"),
	rule(`\b(vegetable|canola|sunflower|neutral|peanut)? ?oil\b`, "oil_vegetable"),
	rule(`\bmayo(nnaise)?\b`, "mayonnaise"),

	rule(`\bchicken (stock|broth)\b`, "stock_chicken"),
	rule(`\bbeef (stock|broth)\b`, "stock_beef"),
	rule(`\b(vegetable )?(stock|broth)\b`, "stock_vegetable"),
	rule(`\bchicken breasts?\b`, "chicken_breast"),
	rule(`\bchicken thighs?\b`, "chicken_thigh"),
	rule(`\bchicken\b`, "chicken_whole"),
	rule(`\bground turkey\b|\bturkey\b`, "turkey_ground"),
	rule(`\b(ground|minced) beef\b|\bhamburger\b`, "beef_ground"),
	rule(`\b(steak|sirloin|ribeye|beef)\b`, "beef_steak"),
	rule(`\b(ground|minced) pork\b`, "pork_ground"),
	rule(`\bpork\b`, "pork_chop"),
	rule(`\b(bacon|pancetta)\b`, "bacon"),
	rule(`\b(sausages?|chorizo)\b`, "sausage"),
	rule(`\b(ham|prosciutto)\b`, "ham"),
	rule(`\blamb\b`, "lamb"),
	rule(`\btuna\b`, "tuna_canned"),
	rule(`\bsalmon\b`, "salmon"),
	rule(`\b(shrimps?|prawns?)\b`, "shrimp"),
	rule(`\b(cod|white fish|tilapia|haddock)\b`, "cod"),
	rule(`\btofu\b`, "tofu"),

	rule(`\bblack beans?\b`, "beans_black"),
	rule(`\b(kidney|pinto|cannellini|white) beans?\b`, "beans_kidney"),
	rule(`\b(chickpeas?|garbanzo)\b`, "chickpeas"),
	rule(`\blentils?\b`, "lentils"),
	rule(`\balmonds?\b`, "almonds"),
	rule(`\bwalnuts?\b`, "walnuts"),
	rule(`\bpecans?\b`, "pecans"),
	rule(`\bpeanuts?\b`, "peanuts"),
	rule(`\bcashews?\b`, "cashews"),
	rule(`\bsesame\b`, "sesame_seeds"),

	rule(`\b(green onions?|scallions?|spring onions?)\b`, "scallion"),
	rule(`\bshallots?\b`, "shallot"),
	rule(`\bleeks?\b`, "leek"),
	rule(`\bonions?\b`, "onion"),
	rule(`\bgarlic\b`, "garlic"),
	rule(`\bginger\b`, "ginger"),
	rule(`\btomato (paste|puree)\b`, "tomato_paste"),
	rule(`\b(crushed|diced|canned) tomato(es)?\b|\btomato sauce\b`, "tomato_canned"),
	rule(`\btomato(es)?\b`, "tomato"),
	rule(`\bcarrots?\b`, "carrot"),
	rule(`\bcelery\b`, "celery"),
	rule(`\bsweet potato(es)?\b|\byams?\b`, "sweet_potato"),
	rule(`\bpotato(es)?\b`, "potato"),
	rule(`\bmushrooms?\b`, "mushroom"),
	rule(`\bspinach\b`, "spinach"),
	rule(`\b(lettuce|romaine|arugula|greens)\b`, "lettuce"),
	rule(`\bcabbage\b`, "cabbage"),
	rule(`\bbroccoli\b`, "broccoli"),
	rule(`\bcauliflower\b`, "cauliflower"),
	rule(`\b(zucchini|courgettes?)\b`, "zucchini"),
	rule(`\b(eggplants?|aubergines?)\b`, "eggplant"),
	rule(`\bcucumbers?\b`, "cucumber"),
	rule(`\bcorn\b`, "corn"),
	rule(`\bgreen beans?\b`, "green_beans"),
	rule(`\bpeas\b`, "peas"),
	rule(`\bkale\b`, "kale"),
	rule(`\bavocados?\b`, "avocado"),

	rule(`\blemon juice\b`, "lemon_juice"),
	rule(`\blime juice\b|\blimes?\b`, "lime_juice"),
	rule(`\borange juice\b`, "orange_juice"),
	rule(`\blemons?\b`, "lemon"),
	rule(`\boranges?\b`, "orange"),
	rule(`\bapples?\b`, "apple"),
	rule(`\bbananas?\b`, "banana"),
	rule(`\bstrawberr(y|ies)\b`, "strawberries"),
	rule(`\bblueberr(y|ies)\b`, "blueberries"),
	rule(`\braisins?\b`, "raisins"),

	rule(`\b(soy sauce|tamari|shoyu)\b`, "soy_sauce"),
	rule(`\bfish sauce\b`, "fish_sauce"),
	rule(`\bworcestershire\b`, "worcestershire"),
	rule(`\b(ketchup|catsup)\b`, "ketchup"),
	rule(`\bmustard\b`, "mustard"),
	rule(`\bsalsa\b`, "salsa"),
	rule(`\bred wine\b`, "wine_red"),
	rule(`\b(white )?wine\b`, "wine_white"),
	rule(`\b(beer|ale|lager)\b`, "beer"),
	rule(`\bwater\b`, "water"),

	rule(`\bcinnamon\b`, "cinnamon"),
	rule(`\bcumin\b`, "cumin"),
	rule(`\bpaprika\b`, "paprika"),
	rule(`\boregano\b`, "oregano"),
	rule(`\bthyme\b`, "thyme"),
	rule(`\bbasil\b`, "basil"),
	rule(`\bparsley\b`, "parsley"),
	rule(`\b(cilantro|coriander leaves)\b`, "cilantro"),
	rule(`\brosemary\b`, "rosemary"),
	rule(`\bnutmeg\b`, "nutmeg"),
	rule(`\bturmeric\b`, "turmeric"),
	rule(`\bbay lea(f|ves)\b`, "bay_leaf"),
}
