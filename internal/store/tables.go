package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableProgress    = "progress_records"
	tableLessonEvent = "lesson_events"
	tableQuizEvent   = "quiz_answer_events"
	tableLLMEvent    = "llm_request_events"
)

// eventColumns are shared by every event table: an autoincrement id, the
// global sequence and a UTC timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func eventIndexes(table string, cols []*schema.Column, byName ...string) []*schema.Index {
	idx := []*schema.Index{
		{Name: table + "_timestamp", Columns: []*schema.Column{column(cols, "timestamp")}},
	}
	for _, n := range byName {
		idx = append(idx, &schema.Index{Name: table + "_" + n, Columns: []*schema.Column{column(cols, n)}})
	}
	return idx
}

func column(cols []*schema.Column, name string) *schema.Column {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	panic("store: unknown column " + name)
}

var (
	progressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "data", Type: field.TypeString, Size: 1 << 20},
		{Name: "updated_at", Type: field.TypeTime},
	}
	progressTable = &schema.Table{
		Name:       tableProgress,
		Columns:    progressColumns,
		PrimaryKey: []*schema.Column{progressColumns[0]},
	}

	lessonEventColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "user_id", Type: field.TypeString},
		&schema.Column{Name: "lesson_id", Type: field.TypeString},
		&schema.Column{Name: "difficulty", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "page_index", Type: field.TypeInt},
		&schema.Column{Name: "correct", Type: field.TypeInt},
		&schema.Column{Name: "answered", Type: field.TypeInt},
		&schema.Column{Name: "duration_ms", Type: field.TypeInt64},
	)
	lessonEventTable = &schema.Table{
		Name:       tableLessonEvent,
		Columns:    lessonEventColumns,
		PrimaryKey: []*schema.Column{lessonEventColumns[0]},
		Indexes:    eventIndexes(tableLessonEvent, lessonEventColumns, "session_id", "lesson_id"),
	}

	quizEventColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "user_id", Type: field.TypeString},
		&schema.Column{Name: "lesson_id", Type: field.TypeString},
		&schema.Column{Name: "page_id", Type: field.TypeString},
		&schema.Column{Name: "option_id", Type: field.TypeString},
		&schema.Column{Name: "correct", Type: field.TypeBool},
	)
	quizEventTable = &schema.Table{
		Name:       tableQuizEvent,
		Columns:    quizEventColumns,
		PrimaryKey: []*schema.Column{quizEventColumns[0]},
		Indexes:    eventIndexes(tableQuizEvent, quizEventColumns, "lesson_id"),
	}

	llmEventColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Nullable: true},
	)
	llmEventTable = &schema.Table{
		Name:       tableLLMEvent,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes:    eventIndexes(tableLLMEvent, llmEventColumns, "purpose"),
	}

	// tables is everything auto-migration creates.
	tables = []*schema.Table{progressTable, lessonEventTable, quizEventTable, llmEventTable}
)
