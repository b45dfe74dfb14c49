package consensus

import (
	"sort"

	"github.com/sweetpotato0/intakekit/catalog"
	"github.com/sweetpotato0/intakekit/scoring"
)

// MaxPerStage derives the diversity cap from the run's question limit.
func MaxPerStage(maxQuestions int) int {
	cap := maxQuestions / 4
	if cap < 2 {
		cap = 2
	}
	return cap
}

// Select picks up to maxQuestions IDs from the consensus data, ordered
// by final score descending. No stage may contribute more than
// MaxPerStage questions, except that required questions always enter.
// Required questions missing after the greedy pass are re-inserted,
// evicting the lowest-priority non-required pick when the run is full.
func Select(consensusData map[string]AgentConsensus, cat *catalog.Catalog, maxQuestions int) []string {
	ordered := make([]AgentConsensus, 0, len(consensusData))
	for _, c := range consensusData {
		ordered = append(ordered, c)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].FinalScore != ordered[j].FinalScore {
			return ordered[i].FinalScore > ordered[j].FinalScore
		}
		return ordered[i].QuestionID < ordered[j].QuestionID
	})

	maxPerStage := MaxPerStage(maxQuestions)
	selected := make([]string, 0, maxQuestions)
	stageCounts := make(map[catalog.Stage]int)

	for _, c := range ordered {
		if len(selected) >= maxQuestions {
			break
		}

		q, ok := cat.Get(c.QuestionID)
		if !ok {
			continue
		}

		if !q.Required && stageCounts[q.Stage] >= maxPerStage {
			continue
		}

		selected = append(selected, c.QuestionID)
		stageCounts[q.Stage]++
	}

	return EnsureRequired(selected, cat, maxQuestions)
}

// SelectRanked picks up to maxQuestions IDs from already ranked
// scores, highest first. It applies the same stage cap and required
// question guarantees as Select; use it when complexity and diversity
// adjustments have produced the final ordering.
func SelectRanked(ranked []scoring.QuestionScore, cat *catalog.Catalog, maxQuestions int) []string {
	maxPerStage := MaxPerStage(maxQuestions)
	selected := make([]string, 0, maxQuestions)
	stageCounts := make(map[catalog.Stage]int)

	for _, s := range ranked {
		if len(selected) >= maxQuestions {
			break
		}

		q, ok := cat.Get(s.QuestionID)
		if !ok {
			continue
		}

		if !q.Required && stageCounts[q.Stage] >= maxPerStage {
			continue
		}

		selected = append(selected, s.QuestionID)
		stageCounts[q.Stage]++
	}

	return EnsureRequired(selected, cat, maxQuestions)
}

// EnsureRequired re-inserts missing required questions, evicting the
// lowest-priority non-required selection when the list is full. The
// input order is priority order, highest first.
func EnsureRequired(selected []string, cat *catalog.Catalog, maxQuestions int) []string {
	present := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		present[id] = struct{}{}
	}

	for _, id := range cat.RequiredIDs() {
		if _, ok := present[id]; ok {
			continue
		}

		if len(selected) < maxQuestions {
			selected = append(selected, id)
			present[id] = struct{}{}
			continue
		}

		// Evict the lowest-priority non-required entry.
		evicted := false
		for i := len(selected) - 1; i >= 0; i-- {
			q, ok := cat.Get(selected[i])
			if ok && q.Required {
				continue
			}
			delete(present, selected[i])
			selected = append(selected[:i], selected[i+1:]...)
			evicted = true
			break
		}
		if !evicted {
			// Everything selected is required; nothing can make room.
			continue
		}

		selected = append(selected, id)
		present[id] = struct{}{}
	}

	if len(selected) > maxQuestions {
		selected = selected[:maxQuestions]
	}
	return selected
}
