package lessons

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks every locale of the catalog and returns all violations
// joined into one error, or nil.
func (c *Catalog) Validate() error {
	var errs []error
	for _, lc := range c.locales {
		for _, err := range validateLessons(lc.lessons) {
			errs = append(errs, fmt.Errorf("%s: %w", lc.tag, err))
		}
		for _, l := range lc.lessons {
			if _, ok := c.locales[0].byID[l.ID]; !ok {
				errs = append(errs, fmt.Errorf("%s: lesson %q has no %s original", lc.tag, l.ID, BaseLocale))
			}
		}
	}
	return errors.Join(errs...)
}

// ValidateLesson checks a single lesson.
func ValidateLesson(l *Lesson) error {
	return errors.Join(validateLesson(l)...)
}

func validateLessons(ls []*Lesson) []error {
	var errs []error
	seen := make(map[string]bool, len(ls))
	for _, l := range ls {
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("duplicate lesson id %q", l.ID))
		}
		seen[l.ID] = true
		errs = append(errs, validateLesson(l)...)
	}
	return errs
}

func validateLesson(l *Lesson) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("lesson %q: "+format, append([]any{l.ID}, args...)...))
	}

	if l.ID == "" {
		fail("empty id")
	}
	if l.Title == "" {
		fail("empty title")
	}
	if !l.Difficulty.Valid() {
		fail("unknown difficulty %q", l.Difficulty)
	}
	if len(l.Pages) == 0 {
		fail("no pages")
	}

	pageIDs := make(map[string]bool, len(l.Pages))
	for i := range l.Pages {
		p := &l.Pages[i]
		if p.ID == "" {
			fail("page %d: empty id", i)
		} else if pageIDs[p.ID] {
			fail("duplicate page id %q", p.ID)
		}
		pageIDs[p.ID] = true

		switch p.Kind {
		case KindStory, KindInteractive:
			if len(p.Options) > 0 {
				fail("page %q: %s page has options", p.ID, p.Kind)
			}
		case KindQuiz:
			for _, msg := range quizProblems(p) {
				fail("page %q: %s", p.ID, msg)
			}
		default:
			fail("page %q: unknown type %q", p.ID, p.Kind)
		}
	}
	return errs
}

func quizProblems(p *Page) []string {
	var out []string
	if p.Question == "" {
		out = append(out, "quiz without question")
	}
	if len(p.Options) < 2 {
		out = append(out, fmt.Sprintf("quiz has %d options, want at least 2", len(p.Options)))
	}

	ids := make(map[string]bool, len(p.Options))
	correct := 0
	for _, o := range p.Options {
		if o.ID == "" {
			out = append(out, "option with empty id")
		} else if ids[o.ID] {
			out = append(out, fmt.Sprintf("duplicate option id %q", o.ID))
		}
		ids[o.ID] = true
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		out = append(out, fmt.Sprintf("%d correct options, want exactly 1", correct))
	}
	if p.IsTrueFalse() && len(p.Options) != 2 {
		out = append(out, fmt.Sprintf("true/false quiz has %d options, want 2", len(p.Options)))
	}
	return out
}

// IsTrueFalse reports whether the quiz is a boolean quiz, recognized by
// option ids "true" and "false".
func (p *Page) IsTrueFalse() bool {
	if p.Kind != KindQuiz {
		return false
	}
	for _, o := range p.Options {
		id := strings.ToLower(o.ID)
		if id == "true" || id == "false" {
			return true
		}
	}
	return false
}
