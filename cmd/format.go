package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdrill/internal/analytics"
	"github.com/abhisek/quizdrill/internal/question"
)

// Terminal styles. Formatting only; layout stays with the terminal.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6"))
)

// renderQuestion formats one question with 1-based option numbers.
func renderQuestion(q *question.Question, position, total int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Question (#%d) %d / %d", q.ID, position+1, total)))
	b.WriteString("\n\n")
	b.WriteString(stripHTML(q.Text))
	b.WriteString("\n\n")
	for i, option := range q.Options {
		b.WriteString(optionStyle.Render(fmt.Sprintf("  %d.", i+1)))
		b.WriteString(" " + option + "\n")
	}
	if q.Mode == question.ModeMultipleChoice {
		b.WriteString(dimStyle.Render("(multiple choice — separate numbers with commas)"))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFeedback formats the post-submit reveal: verdict, the correct
// answer when wrong, and the explanation if present.
func renderFeedback(q *question.Question, correct bool) string {
	var b strings.Builder
	if correct {
		b.WriteString(successStyle.Render("Correct"))
		b.WriteString("\n")
	} else {
		b.WriteString(errorStyle.Render("Incorrect"))
		b.WriteString("\n\nCorrect answer:\n")
		for _, idx := range q.Answer {
			b.WriteString("  - " + q.Options[idx] + "\n")
		}
	}
	if q.Explanation != "" {
		b.WriteString("\nExplanation:\n")
		b.WriteString(stripHTML(q.Explanation))
		b.WriteString("\n")
	}
	return b.String()
}

// renderStats formats a one-line round or overall summary.
func renderStats(label string, s analytics.Stats) string {
	return fmt.Sprintf("%s — asked: %d, correct: %s, wrong: %s, success: %.1f%%",
		label,
		s.Asked,
		successStyle.Render(fmt.Sprintf("%d", s.Correct)),
		errorStyle.Render(fmt.Sprintf("%d", s.Wrong)),
		s.Percent,
	)
}

// renderGapTable formats gap rows as an aligned text table.
func renderGapTable(rows []analytics.GapRow) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %-32s %8s %8s %9s %6s\n", "TOPIC", "ATTEMPTS", "CORRECT", "ACCURACY", "GAP"))
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-32s %8d %8d %8.0f%% %6.2f\n",
			truncate(row.Topic, 32), row.Attempts, row.Correct, row.Accuracy*100, row.Gap))
	}
	return b.String()
}

// renderDistribution formats topic counts as an aligned text table.
func renderDistribution(rows []analytics.TopicCount) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %-32s %8s %8s\n", "TOPIC", "COUNT", "SHARE"))
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-32s %8d %7.1f%%\n", truncate(row.Topic, 32), row.Count, row.Percent))
	}
	return b.String()
}

// truncate shortens s to at most max runes, ellipsized. Cutting on rune
// boundaries keeps multi-byte topic names valid.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// stripHTML drops markup tags from question bodies, which often arrive
// wrapped in <p> from the bank.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
