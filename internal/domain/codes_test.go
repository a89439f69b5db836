package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	assert.Equal(t, PositionTop, ParsePosition(" Alto "))
	assert.Equal(t, PositionBottom, ParsePosition("bottom"))
	assert.Equal(t, PositionLeft, ParsePosition("sinistra"))
	assert.Equal(t, PositionRight, ParsePosition("DESTRA"))
	assert.Equal(t, PositionUnknown, ParsePosition("centro"))
}

func TestLegacyCodes(t *testing.T) {
	assert.Equal(t, RelationSpouse, RelationFromTraid(4))
	assert.Equal(t, RelationUnknown, RelationFromTraid(0))
	assert.Equal(t, GenderFemale, GenderFromSex(2))
	assert.Equal(t, GenderOther, GenderFromSex(0))
	assert.Equal(t, LayoutHierarchical, LayoutTypeFromTemplate(DefaultTemplate))
	assert.Equal(t, LayoutVertical, LayoutTypeFromTemplate("standard_as_pdf"))
	assert.Equal(t, LayoutCustom, LayoutTypeFromTemplate("gold"))
}

func TestParseLegacyDate(t *testing.T) {
	for _, v := range []string{"", "0", "0000-00-00", "0000-00-00 00:00:00", "not a date"} {
		assert.Nil(t, ParseLegacyDate(v), v)
	}

	d := ParseLegacyDate("1950-03-04")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(1950, 3, 4, 0, 0, 0, 0, time.UTC), *d)

	d = ParseLegacyDate("04/03/1950")
	require.NotNil(t, d)
	assert.Equal(t, time.March, d.Month())
}

func TestLegacyPersonHelpers(t *testing.T) {
	p := LegacyPerson{FirstName: " Mario ", LastName: "Rossi", Email: "0"}
	assert.Equal(t, "Mario Rossi", p.FullName())
	assert.False(t, p.HasEmail())

	p.Email = "mario@example.com"
	assert.True(t, p.HasEmail())
	assert.Empty(t, LegacyPerson{}.FullName())
}
