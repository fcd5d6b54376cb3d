package item

// EncumbranceLevel names how loaded down a character is.
type EncumbranceLevel = string

const (
	EncNone       EncumbranceLevel = "None"
	EncLight      EncumbranceLevel = "Light"
	EncEncumbered EncumbranceLevel = "Encumbered"
	EncHeavy      EncumbranceLevel = "Heavy"
	EncOver       EncumbranceLevel = "Over-Encumbered"
)

// Encumbrance holds the carried-weight verdict.
type Encumbrance struct {
	TotalWeight  int              `json:"totalWeight"`
	Capacity     int              `json:"capacity"`
	Level        EncumbranceLevel `json:"level"`
	SpeedPenalty int              `json:"speedPenalty"`
	DodgePenalty int              `json:"dodgePenalty"`
}

// Capacity is how much weight a character carries before penalties:
// (5 + EN + MG) squared.
func Capacity(endurance, might int) int {
	base := 5 + endurance + might
	return base * base
}

// ComputeEncumbrance classifies totalWeight against capacity. Boundaries are
// inclusive upward: weight exactly at half capacity is already Light.
func ComputeEncumbrance(totalWeight, capacity int) Encumbrance {
	e := Encumbrance{TotalWeight: totalWeight, Capacity: capacity}
	if capacity <= 0 {
		e.Level = EncOver
		e.SpeedPenalty = -4
		e.DodgePenalty = -4
		return e
	}
	ratio := float64(totalWeight) / float64(capacity)
	switch {
	case ratio < 0.5:
		e.Level = EncNone
	case ratio < 1.0:
		e.Level = EncLight
		e.SpeedPenalty = -1
		e.DodgePenalty = -1
	case ratio < 1.5:
		e.Level = EncEncumbered
		e.SpeedPenalty = -2
		e.DodgePenalty = -2
	case ratio < 2.0:
		e.Level = EncHeavy
		e.SpeedPenalty = -3
		e.DodgePenalty = -3
	default:
		e.Level = EncOver
		e.SpeedPenalty = -4
		e.DodgePenalty = -4
	}
	return e
}
