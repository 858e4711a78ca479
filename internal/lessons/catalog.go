// Package lessons holds the static lesson catalog: lessons, their pages and
// quiz options, authored as YAML per locale and embedded in the binary.
//
// Content is a pure function of the requested locale. Nothing here reads an
// ambient "current language"; screens pass a language.Tag explicitly.
package lessons

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/mod/semver"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = "v1"

// BaseLocale is the locale every other catalog falls back to.
var BaseLocale = language.English

//go:embed content/*.yaml
var contentFS embed.FS

// ErrUnsupportedVersion is returned for catalogs with an unknown format version.
var ErrUnsupportedVersion = errors.New("unsupported catalog version")

// catalogFile is the on-disk shape of one locale's content.
type catalogFile struct {
	Version string   `yaml:"version"`
	Locale  string   `yaml:"locale"`
	Lessons []Lesson `yaml:"lessons"`
}

type localeCatalog struct {
	tag     language.Tag
	version string
	lessons []*Lesson
	byID    map[string]*Lesson
}

// Catalog is the immutable set of lessons for all shipped locales. Returned
// lessons are shared and must not be modified.
type Catalog struct {
	locales []*localeCatalog // locales[0] is BaseLocale
	matcher language.Matcher
}

// Load parses the embedded catalogs.
func Load() (*Catalog, error) {
	return LoadFS(contentFS, "content")
}

// MustLoad is Load for package-level initialization of the shipped content.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("lessons: load embedded catalog: %v", err))
	}
	return c
}

// LoadFS parses every *.yaml file in dir of fsys. A catalog for BaseLocale
// must be present.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	var base *localeCatalog
	var others []*localeCatalog
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		lc, err := parseCatalog(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		if lc.tag == BaseLocale {
			base = lc
			continue
		}
		others = append(others, lc)
	}
	if base == nil {
		return nil, fmt.Errorf("no catalog for base locale %s", BaseLocale)
	}

	locales := append([]*localeCatalog{base}, others...)
	tags := make([]language.Tag, len(locales))
	for i, lc := range locales {
		tags[i] = lc.tag
	}

	return &Catalog{
		locales: locales,
		matcher: language.NewMatcher(tags),
	}, nil
}

func parseCatalog(raw []byte) (*localeCatalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	if !semver.IsValid(f.Version) || semver.Major(f.Version) != SupportedMajor {
		return nil, fmt.Errorf("%w: %q (want %s.x)", ErrUnsupportedVersion, f.Version, SupportedMajor)
	}

	tag, err := language.Parse(f.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", f.Locale, err)
	}

	lc := &localeCatalog{
		tag:     tag,
		version: f.Version,
		byID:    make(map[string]*Lesson, len(f.Lessons)),
	}
	for i := range f.Lessons {
		l := &f.Lessons[i]
		l.ID = strings.TrimSpace(l.ID)
		lc.lessons = append(lc.lessons, l)
		lc.byID[l.ID] = l
	}
	return lc, nil
}

// Locales returns the tags of all loaded catalogs, base locale first.
func (c *Catalog) Locales() []language.Tag {
	tags := make([]language.Tag, len(c.locales))
	for i, lc := range c.locales {
		tags[i] = lc.tag
	}
	return tags
}

// match picks the loaded catalog closest to tag.
func (c *Catalog) match(tag language.Tag) *localeCatalog {
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return c.locales[0]
	}
	return c.locales[idx]
}

// Lesson looks a lesson up by id in the catalog best matching tag. Ids are
// compared by their string form, so 3 and "3" find the same lesson. Unknown,
// nil or empty ids report false; that is a normal result, not an error.
// Lessons missing from a translated catalog fall back to the base locale.
func (c *Catalog) Lesson(id any, tag language.Tag) (*Lesson, bool) {
	key := NormalizeID(id)
	if key == "" {
		return nil, false
	}
	if l, ok := c.match(tag).byID[key]; ok {
		return l, true
	}
	l, ok := c.locales[0].byID[key]
	return l, ok
}

// Lessons returns every lesson in base catalog order, localized where a
// translation exists.
func (c *Catalog) Lessons(tag language.Tag) []*Lesson {
	lc := c.match(tag)
	out := make([]*Lesson, 0, len(c.locales[0].lessons))
	for _, base := range c.locales[0].lessons {
		if l, ok := lc.byID[base.ID]; ok {
			out = append(out, l)
			continue
		}
		out = append(out, base)
	}
	return out
}

// NormalizeID converts a lesson id of any scalar type to its lookup key.
func NormalizeID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
