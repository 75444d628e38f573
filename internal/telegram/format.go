package telegram

import (
	"fmt"
	"strings"

	"github.com/spotcircuit/dmv-test/internal/domain/results"
	"github.com/spotcircuit/dmv-test/internal/service"
)

func FormatQuestion(f service.Fetch) string {
	p := f.Progress
	return fmt.Sprintf("❓ Question %d/%d · %s\n✅ %d  ❌ %d  🔥 %d\n\n%s",
		p.Answered+1, p.Total, p.Section,
		p.Correct, p.Wrong, p.Streak,
		f.Question.Text,
	)
}

func FormatAnswer(a service.Answer) string {
	var sb strings.Builder
	if a.Correct {
		sb.WriteString("✅ Correct!")
	} else {
		sb.WriteString("❌ ")
		sb.WriteString(a.Feedback)
	}
	if a.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(a.Explanation)
	}
	return sb.String()
}

func FormatResults(r results.Result) string {
	verdict := "❌ FAILED"
	if r.Passed {
		verdict = "✅ PASSED"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n%d correct, %d wrong out of %d questions\n\n%s",
		verdict, r.CorrectCount, r.WrongCount, r.TotalQuestions, r.Message)

	if len(r.Breakdown) > 0 {
		sb.WriteString("\n")
		for _, c := range r.Breakdown {
			fmt.Fprintf(&sb, "\n%s: %d/%d", c.Category, c.Correct, c.Questions)
		}
	}
	return sb.String()
}
