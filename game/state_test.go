package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stateWithLives(lives ...int) *State {
	st := newState("at")
	for i, l := range lives {
		st.addPlayer(&Player{id: uint64(i + 1), lives: l})
	}
	return st
}

func TestNextEligible(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc   string
		lives  []int
		from   uint64
		want   uint64
		wantOK bool
	}{
		{
			desc:  "simple rotation",
			lives: []int{3, 3, 3},
			from:  1, want: 2, wantOK: true,
		},
		{
			desc:  "wraps past the end",
			lives: []int{3, 3, 3},
			from:  3, want: 1, wantOK: true,
		},
		{
			desc:  "skips eliminated players",
			lives: []int{3, 0, 0, 2},
			from:  1, want: 4, wantOK: true,
		},
		{
			desc:  "sole eligible player rotates onto themselves",
			lives: []int{0, 2, 0},
			from:  2, want: 2, wantOK: true,
		},
		{
			desc:  "nobody eligible",
			lives: []int{0, 0},
			from:  1, wantOK: false,
		},
		{
			desc:  "from not in roster scans from the start",
			lives: []int{0, 3},
			from:  42, want: 2, wantOK: true,
		},
		{
			desc:   "empty roster",
			lives:  nil,
			from:   1,
			wantOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			st := stateWithLives(tc.lives...)
			got, ok := st.nextEligible(tc.from)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()
	st := stateWithLives(3, 3, 3)

	assert.True(t, st.removePlayer(2))
	assert.Equal(t, []uint64{1, 3}, st.order)
	assert.NotContains(t, st.players, uint64(2))

	// second removal of the same id reports nothing left to do
	assert.False(t, st.removePlayer(2))
	assert.Equal(t, []uint64{1, 3}, st.order)
}

func TestSnapshotExcludesConnections(t *testing.T) {
	t.Parallel()
	st := stateWithLives(3, 2)
	st.players[1].name = "ada"
	st.players[1].buf = "ca"
	st.chat = append(st.chat, "ada: hi")
	st.current = 1

	snap := st.snapshot(wireSettingsForTest())
	assert.Equal(t, "ada", snap.Players[1].Name)
	assert.Equal(t, "ca", snap.Players[1].Buf)
	assert.Equal(t, 3, snap.Players[1].Lives)
	assert.Equal(t, []string{"ada: hi"}, snap.Chat)
	assert.Equal(t, uint64(1), snap.Current)

	// the snapshot is a copy: later chat does not leak in
	st.chat = append(st.chat, "later")
	assert.Len(t, snap.Chat, 1)
}
