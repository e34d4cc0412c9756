package match

// Linker resolves, for every record, the index of its opponent's record or Unresolved.
// Records must already be in their stable total order.
type Linker func(records []Record) []int

// LinkOpponents links each record to the other record of the same game whose team is the
// record's declared opponent. Records with no such row, or more than one, stay Unresolved.
func LinkOpponents(records []Record) []int {
	byGame := make(map[string][]int)
	for i, r := range records {
		byGame[r.GameID] = append(byGame[r.GameID], i)
	}

	out := make([]int, len(records))
	for i, r := range records {
		out[i] = Unresolved
		found := 0
		for _, j := range byGame[r.GameID] {
			if j != i && records[j].Team == r.Opponent {
				out[i] = j
				found++
			}
		}
		if found != 1 {
			out[i] = Unresolved
		}
	}
	return out
}

// LinkAdjacent links each record to the row directly above it when that row's team is the
// declared opponent, otherwise to the row directly below under the same test. It relies on
// every game being listed as two consecutive rows and ignores game ids entirely.
func LinkAdjacent(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = Unresolved
		if i > 0 && records[i-1].Team == r.Opponent {
			out[i] = i - 1
		} else if i+1 < len(records) && records[i+1].Team == r.Opponent {
			out[i] = i + 1
		}
	}
	return out
}
