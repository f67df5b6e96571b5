package driver

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"conceptc/colors"
	"conceptc/database"
	"conceptc/feedback"

	"github.com/charmbracelet/x/ansi"
)

// WriteFeedback renders every feedback item for the unit, one block per
// item, and returns how many were written.
func WriteFeedback(db *database.Db, filter func(node database.Node) bool, filterFeedback []string, w io.Writer) int {
	if filter == nil {
		filter = func(node database.Node) bool { return true }
	}

	seenFeedback := map[database.Node][]string{}
	feedbackCount := 0
	items := feedback.Collect(db, filter, func(item feedback.FeedbackItem) bool {
		if len(filterFeedback) > 0 && !slices.Contains(filterFeedback, item.Id) {
			return false
		}

		if database.IsHiddenNode(item.On[0]) || !filter(item.On[0]) {
			return false
		}

		if slices.Contains(seenFeedback[item.On[0]], item.Id) {
			return false
		}

		seenFeedback[item.On[0]] = append(seenFeedback[item.On[0]], item.Id)

		return true
	})

	for _, item := range items {
		indent := "  "

		message := item.String()
		wrapped := ansi.Wordwrap(message, 100-len(indent), " ")

		var rendered strings.Builder
		for i, line := range strings.Split(wrapped, "\n") {
			if i > 0 {
				rendered.WriteString("\n")
			}

			rendered.WriteString(indent)
			rendered.WriteString(line)
		}

		if feedbackCount == 0 {
			_, err := fmt.Fprintf(w, "\n%s\n\n", colors.Title("Feedback:"))
			if err != nil {
				panic(err)
			}
		}

		_, err := fmt.Fprintf(w, "%s (%s):\n\n%s\n\n", database.RenderNode(item.On[0]), item.Id, rendered.String())
		if err != nil {
			panic(err)
		}

		feedbackCount++
	}

	return feedbackCount
}
