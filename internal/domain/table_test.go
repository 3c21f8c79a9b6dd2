package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	rows := []Crash{
		{RecordID: "a", Year: 2014, Month: time.October, PrimaryFactor: "SPEED TOO FAST"},
		{RecordID: "b", Year: 2015, Month: time.March, PrimaryFactor: UndefinedFactor},
		{RecordID: "c", Year: 2015, Month: time.October, PrimaryFactor: "SPEED TOO FAST"},
	}
	tbl := NewTable(rows)

	// Mutating the source slice must not leak into the table.
	rows[0].RecordID = "mutated"
	assert.Equal(t, "a", tbl.At(0).RecordID)
	assert.Equal(t, 3, tbl.Len())

	october := tbl.Filter(func(c Crash) bool { return c.Month == time.October })
	assert.Equal(t, 2, october.Len())
	assert.Equal(t, 3, tbl.Len(), "filter must not modify the source table")

	ids := tbl.Strings(func(c Crash) string { return c.RecordID })
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	assert.Empty(t, nilTable.Strings(func(c Crash) string { return c.RecordID }))
}

func TestNow_UsesPackageClock(t *testing.T) {
	fixed := time.Date(2020, time.November, 19, 19, 15, 3, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, fixed, Now())
}
