package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAttendanceReplacesWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.player(t, "A", 1000)
	b := f.player(t, "B", 1000)
	c := f.player(t, "C", 1000)

	_, err := f.attendance.SaveAttendance(ctx, week1, []uint{a.ID, b.ID, b.ID})
	require.NoError(t, err)
	rows, err := f.attendance.GetAttendance(ctx, week1)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.attendance.SaveAttendance(ctx, week1, []uint{c.ID})
	require.NoError(t, err)
	_, err = f.attendance.SaveAttendance(ctx, week1, []uint{c.ID})
	require.NoError(t, err)
	rows, err = f.attendance.GetAttendance(ctx, week1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, c.ID, rows[0].PlayerID)
	assert.True(t, rows[0].Present)

	other, err := f.attendance.GetAttendance(ctx, week2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveAttendanceUnknownPlayerChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.player(t, "A", 1000)

	_, err := f.attendance.SaveAttendance(ctx, week1, []uint{a.ID})
	require.NoError(t, err)
	_, err = f.attendance.SaveAttendance(ctx, week1, []uint{999})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	rows, err := f.attendance.GetAttendance(ctx, week1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestEligiblePlayerIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.player(t, "A", 1000)
	b := f.player(t, "B", 1000)
	c := f.player(t, "C", 1000)
	_, err := f.players.ArchivePlayer(ctx, c.ID)
	require.NoError(t, err)

	ids, err := f.attendance.EligiblePlayerIDs(ctx, week1)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)

	_, err = f.attendance.SaveAttendance(ctx, week1, []uint{b.ID, c.ID})
	require.NoError(t, err)
	ids, err = f.attendance.EligiblePlayerIDs(ctx, week1)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)

	require.NoError(t, f.attendance.ClearAttendance(ctx, week1))
	ids, err = f.attendance.EligiblePlayerIDs(ctx, week1)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)
}
