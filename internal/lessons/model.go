package lessons

// Difficulty grades a lesson. Achievements key off it.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// AllDifficulties returns the difficulties in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// PageKind discriminates the three page variants.
type PageKind string

const (
	KindStory       PageKind = "story"
	KindInteractive PageKind = "interactive"
	KindQuiz        PageKind = "quiz"
)

// Lesson is an ordered sequence of pages teaching one topic.
type Lesson struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Duration    string     `yaml:"duration"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Pages       []Page     `yaml:"pages"`
}

// PageCount returns the number of pages.
func (l *Lesson) PageCount() int {
	return len(l.Pages)
}

// Page returns the page at index i, or nil when out of range.
func (l *Lesson) Page(i int) *Page {
	if i < 0 || i >= len(l.Pages) {
		return nil
	}
	return &l.Pages[i]
}

// LastIndex is the index of the final page.
func (l *Lesson) LastIndex() int {
	return len(l.Pages) - 1
}

// Page is one screen of a lesson. Which fields are meaningful depends on Kind:
// story pages use Content and Graphic, interactive pages host the interest
// slider under Content, quiz pages use Question and Options.
type Page struct {
	ID         string   `yaml:"id"`
	Kind       PageKind `yaml:"type"`
	Title      string   `yaml:"title"`
	Content    string   `yaml:"content,omitempty"`
	Graphic    string   `yaml:"graphic,omitempty"`
	Background string   `yaml:"background,omitempty"`
	Question   string   `yaml:"question,omitempty"`
	Options    []Option `yaml:"options,omitempty"`
}

// Option returns the option with the given id.
func (p *Page) Option(id string) (*Option, bool) {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// CorrectOption returns the first option marked correct.
func (p *Page) CorrectOption() (*Option, bool) {
	for i := range p.Options {
		if p.Options[i].Correct {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// Option is a selectable quiz answer.
type Option struct {
	ID        string `yaml:"id"`
	Text      string `yaml:"text"`
	Correct   bool   `yaml:"correct,omitempty"`
	Rationale string `yaml:"rationale,omitempty"`
}
