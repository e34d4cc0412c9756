package lol

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Champion is a champion reduced to its role, power-spike weights and damage type.
type Champion struct {
	Name   string
	Role   Role
	Spikes [NumSpikes]int
	AP     int
	AD     int
}

// ChampionMap associates a champion's name with its reduced form.
type ChampionMap map[string]Champion

// championColumns is the column layout of the champion role reference table.
var championColumns = []string{"name", "role", "early_game", "mid_game", "late_game", "ap", "ad"}

// LoadChampions parses the champion role reference table. The first record is a header.
// Duplicate names are rejected rather than overwritten.
func LoadChampions(source string, r io.Reader) (ChampionMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, &DataFormatError{Source: source, Line: 1, Reason: "missing header"}
		}
		return nil, &DataFormatError{Source: source, Line: 1, Reason: err.Error()}
	}

	cm := make(ChampionMap)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &DataFormatError{Source: source, Line: line, Reason: err.Error()}
		}
		champ, err := parseChampion(source, line, record)
		if err != nil {
			return nil, err
		}
		if _, exists := cm[champ.Name]; exists {
			return nil, &DataFormatError{Source: source, Line: line, Field: "name", Reason: fmt.Sprintf("duplicate champion \"%s\"", champ.Name)}
		}
		cm[champ.Name] = champ
	}
	return cm, nil
}

func parseChampion(source string, line int, record []string) (Champion, error) {
	if len(record) != len(championColumns) {
		return Champion{}, &DataFormatError{
			Source: source,
			Line:   line,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(championColumns), len(record)),
		}
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return Champion{}, &DataFormatError{Source: source, Line: line, Field: "name", Reason: "empty champion name"}
	}

	roleName := strings.TrimSpace(record[1])
	role, ok := ParseRole(roleName)
	if !ok {
		return Champion{}, &UnknownRoleError{Champion: name, Role: roleName, Line: line}
	}

	flags := make([]int, 5)
	for i := range flags {
		field := championColumns[i+2]
		v, err := strconv.Atoi(strings.TrimSpace(record[i+2]))
		if err != nil {
			return Champion{}, &DataFormatError{Source: source, Line: line, Field: field, Reason: fmt.Sprintf("\"%s\" is not an integer", record[i+2])}
		}
		if v < 0 {
			return Champion{}, &DataFormatError{Source: source, Line: line, Field: field, Reason: fmt.Sprintf("negative weight %d", v)}
		}
		flags[i] = v
	}

	return Champion{
		Name:   name,
		Role:   role,
		Spikes: [NumSpikes]int{flags[0], flags[1], flags[2]},
		AP:     flags[3],
		AD:     flags[4],
	}, nil
}

// Names returns the champion names in sorted order.
func (cm ChampionMap) Names() []string {
	out := make([]string, 0, len(cm))
	for name := range cm {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c Champion) String() string {
	spike := "late game"
	if c.Spikes[Early] > 0 {
		spike = "early game"
	} else if c.Spikes[Mid] > 0 {
		spike = "mid game"
	}
	dmg := "None"
	if c.AD > 0 {
		dmg = "AD"
	} else if c.AP > 0 {
		dmg = "AP"
	}
	return fmt.Sprintf("%s - Role: %s, Powerspike: %s, DamageType: %s", c.Name, c.Role, spike, dmg)
}
