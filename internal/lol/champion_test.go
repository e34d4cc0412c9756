package lol

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "name,role,early_game,mid_game,late_game,ap,ad\n"

func TestLoadChampions(t *testing.T) {
	input := header +
		"Sion,Tank,1,0,0,0,1\n" +
		"Diana,Dive,0,0,1,1,0\n" +
		"Karma, Enchanter, 1, 0, 0, 1, 0\n"

	cm, err := LoadChampions("champions.csv", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, cm, 3)

	assert.Equal(t, Champion{Name: "Sion", Role: Tank, Spikes: [NumSpikes]int{1, 0, 0}, AD: 1}, cm["Sion"])
	assert.Equal(t, Champion{Name: "Diana", Role: Dive, Spikes: [NumSpikes]int{0, 0, 1}, AP: 1}, cm["Diana"])
	assert.Equal(t, Enchanter, cm["Karma"].Role)
	assert.Equal(t, []string{"Diana", "Karma", "Sion"}, cm.Names())
}

func TestLoadChampions_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantField string
		wantLine  int
		wantRole  bool
	}{
		{
			name:     "missing fields",
			input:    header + "Sion,Tank,1,0,0,0\n",
			wantLine: 2,
		},
		{
			name:      "non-integer flag",
			input:     header + "Sion,Tank,yes,0,0,0,1\n",
			wantField: "early_game",
			wantLine:  2,
		},
		{
			name:      "negative flag",
			input:     header + "Sion,Tank,1,0,0,-1,1\n",
			wantField: "ap",
			wantLine:  2,
		},
		{
			name:      "duplicate champion",
			input:     header + "Sion,Tank,1,0,0,0,1\nSion,Tank,0,1,0,0,1\n",
			wantField: "name",
			wantLine:  3,
		},
		{
			name:      "empty name",
			input:     header + ",Tank,1,0,0,0,1\n",
			wantField: "name",
			wantLine:  2,
		},
		{
			name:     "unknown role",
			input:    header + "Sion,Juggernaut,1,0,0,0,1\n",
			wantRole: true,
		},
		{
			name:     "lowercase role is unknown",
			input:    header + "Sion,tank,1,0,0,0,1\n",
			wantRole: true,
		},
		{
			name:     "empty input",
			input:    "",
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := LoadChampions("champions.csv", strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, cm)

			if tt.wantRole {
				var roleErr *UnknownRoleError
				require.True(t, errors.As(err, &roleErr), "got %T", err)
				return
			}
			var formatErr *DataFormatError
			require.True(t, errors.As(err, &formatErr), "got %T", err)
			assert.Equal(t, tt.wantField, formatErr.Field)
			assert.Equal(t, tt.wantLine, formatErr.Line)
			assert.Equal(t, "champions.csv", formatErr.Source)
		})
	}
}

func TestRoleColumns(t *testing.T) {
	want := []string{
		"team_Dives", "team_Tanks", "team_Damages", "team_Enchanters",
		"team_Picks", "team_Pokes", "team_Engages", "team_Splitpushs",
	}
	for i, role := range Roles {
		assert.Equal(t, want[i], role.Column())
		parsed, ok := ParseRole(role.String())
		assert.True(t, ok)
		assert.Equal(t, role, parsed)
	}
}

func TestChampionString(t *testing.T) {
	c := Champion{Name: "Diana", Role: Dive, Spikes: [NumSpikes]int{0, 0, 1}, AP: 1}
	assert.Equal(t, "Diana - Role: Dive, Powerspike: late game, DamageType: AP", c.String())
}
