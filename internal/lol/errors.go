package lol

import (
	"fmt"
	"strings"
)

// DataFormatError reports a malformed row in a reference or match table.
type DataFormatError struct {
	Source string
	Line   int
	Field  string
	Reason string
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString("malformed data")
	if e.Source != "" {
		b.WriteString(fmt.Sprintf(" in %s", e.Source))
	}
	if e.Line > 0 {
		b.WriteString(fmt.Sprintf(" at line %d", e.Line))
	}
	if e.Field != "" {
		b.WriteString(fmt.Sprintf(" (field \"%s\")", e.Field))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// UnknownRoleError reports a champion whose role is outside the enumerated set.
type UnknownRoleError struct {
	Champion string
	Role     string
	Line     int
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("champion \"%s\" at line %d has unknown role \"%s\"", e.Champion, e.Line, e.Role)
}

// UnknownChampionError reports a drafted champion missing from the champion map.
type UnknownChampionError struct {
	Champion string
	RowID    int
	Position Position
}

func (e *UnknownChampionError) Error() string {
	return fmt.Sprintf("row %d: %s champion \"%s\" not in champion map", e.RowID, e.Position, e.Champion)
}

// ModelFitError reports a regression that failed to converge or is ill-conditioned.
type ModelFitError struct {
	Model      string
	Iterations int
	Reason     string
	Err        error
}

func (e *ModelFitError) Error() string {
	msg := fmt.Sprintf("fitting %s failed after %d iterations: %s", e.Model, e.Iterations, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelFitError) Unwrap() error {
	return e.Err
}

// DataQualityError reports a game whose opponent resolution is inconsistent.
type DataQualityError struct {
	GameID string
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("game \"%s\" dropped: %s", e.GameID, e.Reason)
}
