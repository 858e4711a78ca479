package coach

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly money coach for teenagers learning personal finance. Keep explanations short, concrete and free of jargon. Never give individual investment advice.`

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Lesson: %s\n", in.LessonTitle)
	if in.PageTitle != "" {
		fmt.Fprintf(&b, "Section: %s\n", in.PageTitle)
	}
	fmt.Fprintf(&b, "Question: %s\n", in.Question)

	b.WriteString("\nOptions:\n")
	for _, o := range in.Options {
		fmt.Fprintf(&b, "- %s\n", o)
	}

	fmt.Fprintf(&b, "\nStudent chose: %s\n", in.Chosen)
	fmt.Fprintf(&b, "Correct answer: %s\n", in.CorrectText)
	if in.WasCorrect {
		b.WriteString("The student was right.\n")
	} else {
		b.WriteString("The student was wrong.\n")
	}
	if in.Rationale != "" {
		fmt.Fprintf(&b, "Author's note: %s\n", in.Rationale)
	}

	b.WriteString(`
Instructions:
1. In 2-3 sentences explain why the correct answer is right. If the student was wrong, gently say what their choice misses.
2. Give one practical tip they can use this week.
3. Give one tiny example with round numbers in rand (R).
Use plain text, no markdown.`)

	if in.Locale != "" && !strings.HasPrefix(in.Locale, "en") {
		fmt.Fprintf(&b, "\nReply in the language with BCP 47 tag %q.", in.Locale)
	}

	return b.String()
}
