package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrNonFiniteMacro = errors.New("macro value must be a finite number")

// Macros is one set of macronutrient values. Every axis is >= 0.
type Macros struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Add returns the axis-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Carbs:    m.Carbs + o.Carbs,
		Protein:  m.Protein + o.Protein,
		Fat:      m.Fat + o.Fat,
		Fiber:    m.Fiber + o.Fiber,
	}
}

// NonNegative clamps every axis at zero.
func (m Macros) NonNegative() Macros {
	return Macros{
		Calories: clampZero(m.Calories),
		Carbs:    clampZero(m.Carbs),
		Protein:  clampZero(m.Protein),
		Fat:      clampZero(m.Fat),
		Fiber:    clampZero(m.Fiber),
	}
}

// Finite reports whether no axis is NaN or infinite.
func (m Macros) Finite() bool {
	for _, v := range []float64{m.Calories, m.Carbs, m.Protein, m.Fat, m.Fiber} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// UnmarshalJSON accepts "fibre" as a spelling of "fiber". When both are
// present "fiber" wins.
func (m *Macros) UnmarshalJSON(data []byte) error {
	var raw struct {
		Calories FlexFloat  `json:"calories"`
		Carbs    FlexFloat  `json:"carbs"`
		Protein  FlexFloat  `json:"protein"`
		Fat      FlexFloat  `json:"fat"`
		Fiber    *FlexFloat `json:"fiber"`
		Fibre    *FlexFloat `json:"fibre"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Macros{
		Calories: float64(raw.Calories),
		Carbs:    float64(raw.Carbs),
		Protein:  float64(raw.Protein),
		Fat:      float64(raw.Fat),
	}
	switch {
	case raw.Fiber != nil:
		m.Fiber = float64(*raw.Fiber)
	case raw.Fibre != nil:
		m.Fiber = float64(*raw.Fibre)
	}
	return nil
}

// FlexFloat decodes a JSON number, a numeric string such as "12" or "12.5g",
// or null (as 0).
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*f = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(str), "gGkcalKCAL "))
		if s == "" {
			*f = 0
			return nil
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFiniteMacro
	}
	*f = FlexFloat(v)
	return nil
}
