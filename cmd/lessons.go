package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/finwise/internal/lessons"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse and check the lesson catalog",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons for the configured locale",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := lessons.Load()
		if err != nil {
			return err
		}
		printLessonList(cmd.OutOrStdout(), catalog.Lessons(cfg.LocaleTag()))
		return nil
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print every page of a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := lessons.Load()
		if err != nil {
			return err
		}
		l, ok := catalog.Lesson(args[0], cfg.LocaleTag())
		if !ok {
			return fmt.Errorf("lesson %q not found", args[0])
		}
		printLesson(cmd.OutOrStdout(), l)
		return nil
	},
}

var lessonsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every embedded catalog against the content rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := lessons.Load()
		if err != nil {
			return err
		}
		if err := catalog.Validate(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, tag := range catalog.Locales() {
			fmt.Fprintf(out, "%-4s %d lessons ok\n", tag, len(catalog.Lessons(tag)))
		}
		return nil
	},
}

func init() {
	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)
	lessonsCmd.AddCommand(lessonsValidateCmd)
}

func printLessonList(w io.Writer, ls []*lessons.Lesson) {
	fmt.Fprintf(w, "%-4s  %-40s  %-12s  %-8s  %s\n", "ID", "Title", "Difficulty", "Duration", "Pages")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, l := range ls {
		fmt.Fprintf(w, "%-4s  %-40s  %-12s  %-8s  %d\n", l.ID, truncate(l.Title, 40), l.Difficulty, l.Duration, l.PageCount())
	}
}

func printLesson(w io.Writer, l *lessons.Lesson) {
	fmt.Fprintf(w, "%s (%s)\n", l.Title, l.Difficulty)
	if l.Description != "" {
		fmt.Fprintln(w, l.Description)
	}
	for i, p := range l.Pages {
		fmt.Fprintf(w, "\n[%d/%d] %s  %s\n", i+1, l.PageCount(), p.Kind, p.Title)
		if c := strings.TrimSpace(p.Content); c != "" {
			fmt.Fprintln(w, c)
		}
		if p.Kind != lessons.KindQuiz {
			continue
		}
		fmt.Fprintln(w, p.Question)
		for j, o := range p.Options {
			mark := " "
			if o.Correct {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %c) %s\n", mark, 'A'+j, o.Text)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
