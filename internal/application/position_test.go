package application

import (
	"testing"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestConvertPosition(t *testing.T) {
	cases := []struct {
		name     string
		position domain.Position
		priority int
		want     Point
	}{
		{name: "top first", position: domain.PositionTop, priority: 1, want: Point{X: 0, Y: -200}},
		{name: "top third", position: domain.PositionTop, priority: 3, want: Point{X: 300, Y: -200}},
		{name: "bottom second", position: domain.PositionBottom, priority: 2, want: Point{X: 150, Y: 200}},
		{name: "left second", position: domain.PositionLeft, priority: 2, want: Point{X: -300, Y: 150}},
		{name: "right first", position: domain.PositionRight, priority: 1, want: Point{X: 300, Y: 0}},
		{name: "unknown", position: domain.PositionUnknown, priority: 4, want: Point{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ConvertPosition(tc.position, tc.priority, DefaultGroupSize))
		})
	}
}

func TestConvertLabel(t *testing.T) {
	assert.Equal(t, Point{X: 0, Y: -200}, ConvertLabel("ALTO", 1, 4))
	assert.Equal(t, Point{X: 150, Y: 200}, ConvertLabel(" basso ", 2, 4))
	assert.Equal(t, Point{X: -300, Y: 0}, ConvertLabel("left", 1, 4))
	assert.Equal(t, Point{}, ConvertLabel("centro", 1, 4))
}
