package gallery

import "math"

// Direction is a pagination step.
type Direction int

const (
	Prev Direction = -1
	None Direction = 0
	Next Direction = 1
)

func directionOf(n int) Direction {
	switch {
	case n > 0:
		return Next
	case n < 0:
		return Prev
	default:
		return None
	}
}

// InputKind tells the classifier which rule applies.
type InputKind int

const (
	// InputTouch is judged on distance alone.
	InputTouch InputKind = iota
	// InputPointer is judged on swipe power, |offset| * velocity.
	InputPointer
)

// Classifier turns a horizontal gesture into a page direction. Device bindings
// (touch tracking, pointer drag release) are thin adapters over Classify.
type Classifier struct {
	ThresholdPx float64
	Confidence  float64
}

// Classify returns Next when the gesture moved left, Prev when it moved right, and
// None when it was too short (touch) or too weak (pointer).
func (g Classifier) Classify(kind InputKind, startX, endX, velocity float64) Direction {
	delta := startX - endX
	switch kind {
	case InputTouch:
		if math.Abs(delta) <= g.ThresholdPx {
			return None
		}
	case InputPointer:
		if SwipePower(endX-startX, velocity) <= g.Confidence {
			return None
		}
	default:
		return None
	}
	if delta > 0 {
		return Next
	}
	return Prev
}

// SwipePower scores a pointer drag.
func SwipePower(offset, velocity float64) float64 {
	return math.Abs(offset) * math.Abs(velocity)
}
