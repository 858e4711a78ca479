package lessons

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestShippedCatalogValidates(t *testing.T) {
	c := testCatalog(t)
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestLessonLookupForgiving(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		name string
		id   any
		want bool
	}{
		{"string", "2", true},
		{"int", 2, true},
		{"int64", int64(3), true},
		{"padded", " 4 ", true},
		{"unknown", "999", false},
		{"empty", "", false},
		{"nil", nil, false},
		{"nil string ptr", (*string)(nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := c.Lesson(tt.id, language.English)
			if ok != tt.want {
				t.Errorf("Lesson(%v) found = %v, want %v", tt.id, ok, tt.want)
			}
		})
	}
}

func TestLessonStringAndNumberSameLesson(t *testing.T) {
	c := testCatalog(t)
	a, _ := c.Lesson("2", language.English)
	b, _ := c.Lesson(2, language.English)
	if a != b {
		t.Errorf("Lesson(\"2\") and Lesson(2) returned different lessons")
	}
}

func TestLocaleMatchingAndFallback(t *testing.T) {
	c := testCatalog(t)

	es, ok := c.Lesson("1", language.MustParse("es-MX"))
	if !ok {
		t.Fatal("Lesson(1, es-MX) not found")
	}
	if es.Title != "¿Por qué ahorrar?" {
		t.Errorf("es title = %q", es.Title)
	}

	// Lesson 4 is not translated; falls back to English.
	l, ok := c.Lesson("4", language.Spanish)
	if !ok {
		t.Fatal("Lesson(4, es) not found")
	}
	if l.Title != "Building a Budget" {
		t.Errorf("fallback title = %q, want English", l.Title)
	}

	// Unsupported locale gets the base catalog.
	fr, _ := c.Lesson("1", language.French)
	if fr.Title != "Why Save?" {
		t.Errorf("fr title = %q, want English", fr.Title)
	}
}

func TestLessonsOrderMatchesBase(t *testing.T) {
	c := testCatalog(t)
	en := c.Lessons(language.English)
	es := c.Lessons(language.Spanish)
	if len(en) != len(es) {
		t.Fatalf("len(es) = %d, want %d", len(es), len(en))
	}
	for i := range en {
		if en[i].ID != es[i].ID {
			t.Errorf("order[%d] = %s, want %s", i, es[i].ID, en[i].ID)
		}
	}
	if len(en) < 5 {
		t.Errorf("catalog has %d lessons, need at least 5 for every achievement", len(en))
	}
}

func TestCatalogHasIntermediateLesson(t *testing.T) {
	c := testCatalog(t)
	for _, l := range c.Lessons(language.English) {
		if l.Difficulty == Intermediate {
			return
		}
	}
	t.Error("no Intermediate lesson in catalog")
}

func TestEveryQuizHasOneCorrectOption(t *testing.T) {
	c := testCatalog(t)
	for _, tag := range c.Locales() {
		for _, l := range c.Lessons(tag) {
			for i := range l.Pages {
				p := l.Page(i)
				if p.Kind != KindQuiz {
					continue
				}
				if _, ok := p.CorrectOption(); !ok {
					t.Errorf("%s lesson %s page %s: no correct option", tag, l.ID, p.ID)
				}
			}
		}
	}
}

func TestPageOutOfRange(t *testing.T) {
	c := testCatalog(t)
	l, _ := c.Lesson("1", language.English)
	if l.Page(-1) != nil || l.Page(l.PageCount()) != nil {
		t.Error("Page() out of range should return nil")
	}
	if l.LastIndex() != l.PageCount()-1 {
		t.Errorf("LastIndex() = %d", l.LastIndex())
	}
}

const minimalEN = `
version: v1.0.0
locale: en
lessons:
  - id: "1"
    title: One
    difficulty: Beginner
    pages:
      - id: p1
        type: story
        title: Hello
`

func TestLoadFSRejectsUnsupportedVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"c/en.yaml": {Data: []byte(strings.Replace(minimalEN, "v1.0.0", "v2.0.0", 1))},
	}
	_, err := LoadFS(fsys, "c")
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("LoadFS() error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestLoadFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"c/es.yaml": {Data: []byte(strings.Replace(minimalEN, "locale: en", "locale: es", 1))},
	}
	if _, err := LoadFS(fsys, "c"); err == nil {
		t.Error("LoadFS() without base locale succeeded")
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	l := &Lesson{
		ID:         "x",
		Title:      "Broken",
		Difficulty: "Expert",
		Pages: []Page{
			{ID: "q1", Kind: KindQuiz, Question: "?", Options: []Option{
				{ID: "a", Correct: true}, {ID: "b", Correct: true},
			}},
			{ID: "q1", Kind: KindStory},
			{ID: "tf", Kind: KindQuiz, Question: "?", Options: []Option{
				{ID: "true", Correct: true}, {ID: "false"}, {ID: "maybe"},
			}},
			{ID: "z", Kind: "video"},
		},
	}
	err := ValidateLesson(l)
	if err == nil {
		t.Fatal("ValidateLesson() = nil")
	}
	for _, want := range []string{
		"unknown difficulty",
		"2 correct options",
		"duplicate page id",
		"true/false quiz has 3 options",
		"unknown type",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}
