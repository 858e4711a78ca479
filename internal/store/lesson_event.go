package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendLessonEvent(ctx context.Context, data LessonEventData) error {
	err := r.insertEvent(ctx, tableLessonEvent,
		[]string{"session_id", "user_id", "lesson_id", "difficulty", "action", "page_index", "correct", "answered", "duration_ms"},
		[]any{data.SessionID, data.UserID, data.LessonID, data.Difficulty, data.Action, data.PageIndex, data.Correct, data.Answered, data.Duration.Milliseconds()},
	)
	if err != nil {
		return fmt.Errorf("save lesson event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendQuizAnswer(ctx context.Context, data QuizAnswerEventData) error {
	err := r.insertEvent(ctx, tableQuizEvent,
		[]string{"session_id", "user_id", "lesson_id", "page_id", "option_id", "correct"},
		[]any{data.SessionID, data.UserID, data.LessonID, data.PageID, data.OptionID, data.Correct},
	)
	if err != nil {
		return fmt.Errorf("save quiz answer event: %w", err)
	}
	return nil
}

// QueryLessonEvents returns lesson events in sequence order.
func (r *eventRepo) QueryLessonEvents(ctx context.Context, opts QueryOpts) ([]LessonEvent, error) {
	sel := builder.Select(
		"sequence", "timestamp", "session_id", "user_id", "lesson_id",
		"difficulty", "action", "page_index", "correct", "answered", "duration_ms",
	).From(entsql.Table(tableLessonEvent))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.LessonID != "" {
		sel.Where(entsql.EQ("lesson_id", opts.LessonID))
	}
	if opts.UserID != "" {
		sel.Where(entsql.EQ("user_id", opts.UserID))
	}
	sel.OrderBy(entsql.Asc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var out []LessonEvent
	for rows.Next() {
		var e LessonEvent
		var durationMs int64
		if err := rows.Scan(
			&e.Sequence, &e.Timestamp, &e.SessionID, &e.UserID, &e.LessonID,
			&e.Difficulty, &e.Action, &e.PageIndex, &e.Correct, &e.Answered, &durationMs,
		); err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		e.Duration = msToDuration(durationMs)
		out = append(out, e)
	}
	return out, rows.Err()
}

// LessonStats aggregates starts, completions and scores per lesson.
func (r *eventRepo) LessonStats(ctx context.Context, userID string) ([]LessonStat, error) {
	events, err := r.QueryLessonEvents(ctx, QueryOpts{UserID: userID})
	if err != nil {
		return nil, err
	}

	byLesson := make(map[string]*LessonStat)
	var order []string
	for _, e := range events {
		st, ok := byLesson[e.LessonID]
		if !ok {
			st = &LessonStat{LessonID: e.LessonID}
			byLesson[e.LessonID] = st
			order = append(order, e.LessonID)
		}
		switch e.Action {
		case ActionStart:
			st.Started++
		case ActionComplete:
			st.Completed++
			st.Correct += e.Correct
			st.Answered += e.Answered
		}
	}

	out := make([]LessonStat, 0, len(order))
	for _, id := range order {
		out = append(out, *byLesson[id])
	}
	return out, nil
}

// QuizAccuracy counts correct answers among all recorded quiz answers.
func (r *eventRepo) QuizAccuracy(ctx context.Context, userID string) (int, int, error) {
	sel := builder.Select(
		entsql.As(entsql.Count("*"), "total"),
		entsql.As("COALESCE(SUM(correct), 0)", "correct"),
	).From(entsql.Table(tableQuizEvent))
	if userID != "" {
		sel.Where(entsql.EQ("user_id", userID))
	}

	query, args := sel.Query()
	var total, correct int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("query quiz accuracy: %w", err)
	}
	return correct, total, nil
}
