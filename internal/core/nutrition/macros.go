package nutrition

// Macros 每 100g 或彙總後的營養素；Sodium 單位為 mg，其餘為 g 或 kcal
type Macros struct {
	Calories     float64 `json:"calories"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturatedFat"`
	TransFat     float64 `json:"transFat"`
	Carbs        float64 `json:"carbs"`
	Fiber        float64 `json:"fiber"`
	Sugars       float64 `json:"sugars"`
	Protein      float64 `json:"protein"`
	Sodium       float64 `json:"sodium"`
}

// Add 逐欄相加
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories:     m.Calories + o.Calories,
		Fat:          m.Fat + o.Fat,
		SaturatedFat: m.SaturatedFat + o.SaturatedFat,
		TransFat:     m.TransFat + o.TransFat,
		Carbs:        m.Carbs + o.Carbs,
		Fiber:        m.Fiber + o.Fiber,
		Sugars:       m.Sugars + o.Sugars,
		Protein:      m.Protein + o.Protein,
		Sodium:       m.Sodium + o.Sodium,
	}
}

// Scale 逐欄乘上係數
func (m Macros) Scale(f float64) Macros {
	return Macros{
		Calories:     m.Calories * f,
		Fat:          m.Fat * f,
		SaturatedFat: m.SaturatedFat * f,
		TransFat:     m.TransFat * f,
		Carbs:        m.Carbs * f,
		Fiber:        m.Fiber * f,
		Sugars:       m.Sugars * f,
		Protein:      m.Protein * f,
		Sodium:       m.Sodium * f,
	}
}

// Div 逐欄除以 d；d 不為正數時回傳零值
func (m Macros) Div(d float64) Macros {
	if d <= 0 {
		return Macros{}
	}
	return m.Scale(1 / d)
}

// m 建立 profile 的簡寫，欄位順序與 Macros 相同
func m(cal, fat, sat, trans, carbs, fiber, sugars, protein, sodium float64) Macros {
	return Macros{
		Calories:     cal,
		Fat:          fat,
		SaturatedFat: sat,
		TransFat:     trans,
		Carbs:        carbs,
		Fiber:        fiber,
		Sugars:       sugars,
		Protein:      protein,
		Sodium:       sodium,
	}
}
