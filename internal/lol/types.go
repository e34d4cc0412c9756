package lol

import "fmt"

// Role is the reduced archetype role of a champion.
type Role int

const (
	Dive Role = iota
	Tank
	Damage
	Enchanter
	Pick
	Poke
	Engage
	Splitpush
)

// NumRoles is the size of the enumerated role set.
const NumRoles = 8

var roleNames = [NumRoles]string{"Dive", "Tank", "Damage", "Enchanter", "Pick", "Poke", "Engage", "Splitpush"}

// Roles lists every role in column order.
var Roles = [NumRoles]Role{Dive, Tank, Damage, Enchanter, Pick, Poke, Engage, Splitpush}

// ParseRole matches a role name exactly.
func ParseRole(s string) (Role, bool) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), true
		}
	}
	return 0, false
}

func (r Role) String() string {
	if r < 0 || int(r) >= NumRoles {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Column is the team draft column counting teammates with this role, e.g. "team_Tanks".
func (r Role) Column() string {
	return "team_" + r.String() + "s"
}

// Position is one of the five lane positions filled by a team.
type Position int

const (
	Top Position = iota
	Jungle
	Middle
	Bottom
	Support
)

// NumPositions is the number of players per team.
const NumPositions = 5

var positionNames = [NumPositions]string{"top", "jng", "mid", "bot", "sup"}

// Positions lists every position in table order.
var Positions = [NumPositions]Position{Top, Jungle, Middle, Bottom, Support}

func (p Position) String() string {
	if p < 0 || int(p) >= NumPositions {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// Lane is a lane with its own lead-at-15 label.
type Lane int

const (
	TopLane Lane = iota
	MidLane
	BotLane
)

// NumLanes is the number of modelled lanes.
const NumLanes = 3

var laneNames = [NumLanes]string{"top", "mid", "bot"}

// Lanes lists every lane.
var Lanes = [NumLanes]Lane{TopLane, MidLane, BotLane}

func (l Lane) String() string {
	if l < 0 || int(l) >= NumLanes {
		return fmt.Sprintf("Lane(%d)", int(l))
	}
	return laneNames[l]
}

// Spike is the game phase of a champion's power spike.
type Spike int

const (
	Early Spike = iota
	Mid
	Late
)

// NumSpikes is the number of power-spike phases.
const NumSpikes = 3

var spikeNames = [NumSpikes]string{"early_game", "mid_game", "late_game"}

// Spikes lists every phase.
var Spikes = [NumSpikes]Spike{Early, Mid, Late}

func (s Spike) String() string {
	if s < 0 || int(s) >= NumSpikes {
		return fmt.Sprintf("Spike(%d)", int(s))
	}
	return spikeNames[s]
}

// Side is the map side a team plays on.
type Side int

const (
	Blue Side = iota
	Red
)

// ParseSide accepts "Blue" or "Red".
func ParseSide(s string) (Side, bool) {
	switch s {
	case "Blue":
		return Blue, true
	case "Red":
		return Red, true
	}
	return 0, false
}

func (s Side) String() string {
	switch s {
	case Blue:
		return "Blue"
	case Red:
		return "Red"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Picks are the champions a team drafted, indexed by Position.
type Picks [NumPositions]string

// TeamPicks is one team's draft for one game row.
type TeamPicks struct {
	RowID int
	Picks Picks
}
