package domain

import "sort"

// TypeCount holds per-MIME-type outcome counts of a pass
type TypeCount struct {
	MIMEType  string
	Succeeded int
	Failed    int
}

// PassSummary aggregates the outcome of an upload pass
type PassSummary struct {
	SessionID string
	Total     int
	Succeeded int
	Failed    int
	ByType    []TypeCount
}

// Summarize aggregates the statuses of a snapshot. Files the pass has not
// reached are counted in Total only.
func (s Snapshot) Summarize() PassSummary {
	summary := PassSummary{SessionID: s.ID, Total: len(s.Files)}
	counts := make(map[string]*TypeCount)

	for i, st := range s.Statuses {
		if i >= len(s.Files) {
			break
		}
		mt := s.Files[i].MIMEType
		tc, ok := counts[mt]
		if !ok {
			tc = &TypeCount{MIMEType: mt}
			counts[mt] = tc
		}
		switch st.State {
		case StateSucceeded:
			summary.Succeeded++
			tc.Succeeded++
		case StateFailed:
			summary.Failed++
			tc.Failed++
		}
	}

	for _, tc := range counts {
		summary.ByType = append(summary.ByType, *tc)
	}
	sort.Slice(summary.ByType, func(i, j int) bool {
		return summary.ByType[i].MIMEType < summary.ByType[j].MIMEType
	})
	return summary
}
