package application

import "github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"

const (
	positionSpacing   = 150
	topBottomDistance = 200
	leftRightDistance = 300

	DefaultGroupSize = 10
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var basePositions = map[domain.Position]Point{
	domain.PositionTop:    {X: 0, Y: -topBottomDistance},
	domain.PositionBottom: {X: 0, Y: topBottomDistance},
	domain.PositionLeft:   {X: -leftRightDistance, Y: 0},
	domain.PositionRight:  {X: leftRightDistance, Y: 0},
}

// ConvertPosition places a member of a position group. Members sharing a
// label fan out by priority along the axis orthogonal to the label's
// direction. groupSize is the template's max_persons; placement does not
// depend on it.
func ConvertPosition(position domain.Position, priority, groupSize int) Point {
	base, ok := basePositions[position]
	if !ok {
		return Point{}
	}

	step := (priority - 1) * positionSpacing
	switch position {
	case domain.PositionTop, domain.PositionBottom:
		base.X += step
	case domain.PositionLeft, domain.PositionRight:
		base.Y += step
	}
	return base
}

// ConvertLabel is ConvertPosition for a raw legacy label.
func ConvertLabel(label string, priority, groupSize int) Point {
	return ConvertPosition(domain.ParsePosition(label), priority, groupSize)
}
