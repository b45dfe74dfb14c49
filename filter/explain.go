package filter

import (
	"fmt"
	"strings"
)

// Stats summarises a batch of filter decisions.
type Stats struct {
	TotalEvaluations  int
	QuestionsFiltered int
	FilterRate        float64
	ByReason          map[Reason]int
}

// Summarize computes statistics for a decision batch.
func Summarize(decisions []Decision) Stats {
	st := Stats{
		TotalEvaluations: len(decisions),
		ByReason:         make(map[Reason]int),
	}

	for _, d := range decisions {
		if d.ShouldExclude {
			st.QuestionsFiltered++
			st.ByReason[d.Reason]++
		}
	}

	if st.TotalEvaluations > 0 {
		st.FilterRate = float64(st.QuestionsFiltered) / float64(st.TotalEvaluations)
	}
	return st
}

var reasonLabels = map[Reason]string{
	ReasonObviousFromContext:   "obvious from context",
	ReasonAlreadyDescribed:     "already described",
	ReasonDomainImplication:    "implied by domain",
	ReasonRedundantInformation: "redundant information",
	ReasonLowValueAdd:          "low value add",
}

// Explain renders the exclusion decisions grouped by reason, with up
// to two example explanations per group.
func Explain(decisions []Decision) string {
	var excluded []Decision
	for _, d := range decisions {
		if d.ShouldExclude {
			excluded = append(excluded, d)
		}
	}

	if len(excluded) == 0 {
		return "no questions were filtered, all add value"
	}

	byReason := make(map[Reason][]Decision)
	for _, d := range excluded {
		byReason[d.Reason] = append(byReason[d.Reason], d)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "filtered %d redundant questions\n", len(excluded))

	for reason, group := range byReason {
		label, ok := reasonLabels[reason]
		if !ok {
			label = string(reason)
		}
		fmt.Fprintf(&b, "%s: %d questions\n", label, len(group))

		for i, d := range group {
			if i == 2 {
				fmt.Fprintf(&b, "  ... and %d more\n", len(group)-2)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", d.Explanation)
		}
	}

	return b.String()
}
