package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	assert.Len(t, cat.Template(), 16)
	assert.Equal(t, time.Sunday, cat.ClosedWeekday())

	svc, ok := cat.Service("haircut")
	require.True(t, ok)
	assert.Equal(t, "Haircut", svc.Name)
	assert.Equal(t, 25, svc.Price)
	assert.Equal(t, 30, svc.DurationMinutes)

	// Lookup is case-insensitive and trims whitespace.
	_, ok = cat.Service("  Coloring ")
	assert.True(t, ok)

	_, ok = cat.Service("massage")
	assert.False(t, ok)
}

func TestHasSlot(t *testing.T) {
	cat := Default()

	assert.True(t, cat.HasSlot("09:00"))
	assert.True(t, cat.HasSlot("17:30"))
	// Lunch break is not bookable.
	assert.False(t, cat.HasSlot("13:00"))
	assert.False(t, cat.HasSlot("18:00"))
	assert.False(t, cat.HasSlot("9:00"))
}

func TestParseDate(t *testing.T) {
	cat := Default()

	d, err := cat.ParseDate("2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = cat.ParseDate("07.09.2026")
	assert.Error(t, err)
	_, err = cat.ParseDate("2026-13-40")
	assert.Error(t, err)
	_, err = cat.ParseDate("tomorrow")
	assert.Error(t, err)
}

func TestIsClosed(t *testing.T) {
	cat := Default()

	sunday, err := cat.ParseDate("2026-09-06")
	require.NoError(t, err)
	monday, err := cat.ParseDate("2026-09-07")
	require.NoError(t, err)

	assert.True(t, cat.IsClosed(sunday))
	assert.False(t, cat.IsClosed(monday))
}

func TestFreeSlots(t *testing.T) {
	cat := Default()

	free := cat.FreeSlots(nil)
	assert.Equal(t, cat.Template(), free)

	free = cat.FreeSlots([]string{"09:00", "14:00"})
	assert.NotContains(t, free, "09:00")
	assert.NotContains(t, free, "14:00")
	assert.Len(t, free, 14)
	// Template order is preserved.
	assert.Equal(t, "09:30", free[0])

	free = cat.FreeSlots(cat.Template())
	assert.Empty(t, free)
}

func TestMenuText(t *testing.T) {
	menu := Default().MenuText()

	assert.Contains(t, menu, "Haircut - $25 (30 min)")
	assert.Contains(t, menu, "Hair Treatment - $120 (90 min)")
	assert.Contains(t, menu, "\"AGENT\"")
	assert.Contains(t, menu, "\"MENU\"")
}
