package feedback

import (
	"slices"

	"conceptc/database"
)

type Rank int

const (
	RankRegistry Rank = iota
	RankCompletion
	RankResolution
)

func sort(items []FeedbackItem) {
	slices.SortStableFunc(items, func(left FeedbackItem, right FeedbackItem) int {
		leftSpan := database.GetSpanFact(left.On[0])
		rightSpan := database.GetSpanFact(right.On[0])

		if compared := database.CompareSpans(leftSpan, rightSpan); compared != 0 {
			return compared
		}

		return int(left.Rank) - int(right.Rank)
	})
}
