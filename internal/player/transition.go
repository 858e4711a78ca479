package player

import (
	"context"
	"fmt"

	"github.com/abhisek/finwise/internal/lessons"
)

// Next advances one page. On the last page of a completed lesson it
// finishes the session instead.
func (p *Player) Next(ctx context.Context) (Outcome, error) {
	if !p.CanProceed() {
		return Outcome{PageIndex: p.index}, ErrCannotProceed
	}
	if !p.IsLastPage() {
		return p.transitionTo(p.index + 1)
	}
	if !p.Completed() {
		return Outcome{PageIndex: p.index}, ErrNotCompleted
	}
	return p.finish(ctx)
}

// Previous goes back one page.
func (p *Player) Previous() (Outcome, error) {
	if p.index == 0 {
		return Outcome{PageIndex: p.index}, ErrAtFirstPage
	}
	return p.transitionTo(p.index - 1)
}

// SwipeTo applies the page the pager settled on. It goes through the same
// transition as Next and Previous, including answer gating when moving
// forward.
func (p *Player) SwipeTo(index int) (Outcome, error) {
	return p.JumpTo(index)
}

// JumpTo moves to any page. Moving forward requires every page being
// skipped over to be satisfied.
func (p *Player) JumpTo(index int) (Outcome, error) {
	if index < 0 || index >= p.lesson.PageCount() {
		return Outcome{PageIndex: p.index}, fmt.Errorf("%w: %d", ErrPageOutOfRange, index)
	}
	for i := p.index; i < index; i++ {
		if !p.pageSatisfied(i) {
			return Outcome{PageIndex: p.index}, ErrCannotProceed
		}
	}
	return p.transitionTo(index)
}

// transitionTo is the single page change path for buttons, swipes and
// jumps.
func (p *Player) transitionTo(index int) (Outcome, error) {
	if index == p.index {
		return Outcome{PageIndex: p.index}, nil
	}
	p.index = index
	if p.cfg.ForgetAnswersOnPageChange {
		clear(p.answers)
	}
	p.evaluateCompletion()
	return Outcome{PageIndex: p.index, Changed: true}, nil
}

// evaluateCompletion arms or disarms the pending completion for the
// current page. Completion, once reached, stays for the session.
func (p *Player) evaluateCompletion() {
	armed := p.IsLastPage() && p.CanProceed()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = armed && !p.completed
}

// Answer locks in an option on the current quiz page.
func (p *Player) Answer(optionID string) (AnswerResult, error) {
	pg := p.Page()
	if pg.Kind != lessons.KindQuiz {
		return AnswerResult{}, ErrNotQuizPage
	}
	if _, ok := p.answers[pg.ID]; ok {
		return AnswerResult{}, ErrAlreadyAnswered
	}
	opt, ok := pg.Option(optionID)
	if !ok {
		return AnswerResult{}, fmt.Errorf("%w: %q", ErrUnknownOption, optionID)
	}

	p.answers[pg.ID] = opt.ID
	if _, scored := p.results[pg.ID]; !scored {
		p.results[pg.ID] = opt.Correct
	}
	p.evaluateCompletion()

	res := AnswerResult{
		OptionID:  opt.ID,
		Correct:   opt.Correct,
		Rationale: opt.Rationale,
		LastPage:  p.IsLastPage(),
	}
	if c, ok := pg.CorrectOption(); ok {
		res.CorrectOptionID = c.ID
	}
	return res, nil
}

// Settle completes the lesson once the completion delay has passed. It
// returns true when this call completed the lesson. It is a no-op when
// completion is not pending, e.g. the user already left the last page.
func (p *Player) Settle() bool {
	last := p.IsLastPage()
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pending || !last {
		return false
	}
	p.pending = false
	p.completed = true
	return true
}

// Finish is the explicit "complete lesson" action. A pending completion is
// settled immediately.
func (p *Player) Finish(ctx context.Context) (Outcome, error) {
	p.Settle()
	if !p.Completed() {
		return Outcome{PageIndex: p.index}, ErrNotCompleted
	}
	return p.finish(ctx)
}

// finish notifies at most once per session.
func (p *Player) finish(ctx context.Context) (Outcome, error) {
	out := Outcome{PageIndex: p.index, Finished: true}
	if !p.notified.CompareAndSwap(false, true) {
		return out, nil
	}
	out.Notified = true
	if p.notifier == nil {
		return out, nil
	}
	if err := p.notifier.LessonCompleted(ctx, p.completion()); err != nil {
		return out, fmt.Errorf("notify completion: %w", err)
	}
	return out, nil
}

func (p *Player) completion() Completion {
	return Completion{
		SessionID:  p.sessionID,
		LessonID:   p.lesson.ID,
		Difficulty: p.lesson.Difficulty,
		Score:      p.Score(),
		StartedAt:  p.startedAt,
		FinishedAt: p.now(),
	}
}
