// Package coach asks an LLM for a short explanation of a quiz answer.
// It is optional: with no provider configured the quiz page shows the
// authored rationale only.
package coach

// Input is everything the coach sees about one answered quiz question.
type Input struct {
	LessonTitle string
	PageTitle   string
	Question    string
	Options     []string
	Chosen      string
	CorrectText string
	WasCorrect  bool
	Rationale   string
	Locale      string
}

// Explanation is the coach's reply.
type Explanation struct {
	Summary string
	Tip     string
	Example string
}
