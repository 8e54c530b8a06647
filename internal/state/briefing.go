package state

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/nhle/jarvis/internal/model"
)

// BriefingQuestions is the daily alignment questionnaire, asked in order.
var BriefingQuestions = []string{
	"On a scale of 1 to 10, what is your energy level right now?",
	"How many hours did you sleep last night?",
	"What is the one objective that makes today a success?",
	"What is most likely to slow you down today?",
}

// maxAnswers bounds the stored briefing answers.
const maxAnswers = 200

// BriefingQuestion returns the next unanswered question for today and its
// zero-based index. done is true once every question has been answered.
func (s *Store) BriefingQuestion() (question string, index int, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index = s.answeredTodayLocked()
	if index >= len(BriefingQuestions) {
		return "", index, true
	}
	return BriefingQuestions[index], index, false
}

func (s *Store) answeredTodayLocked() int {
	return len(s.todayAnswersLocked())
}

func (s *Store) todayAnswersLocked() []model.DailyAnswer {
	now := s.now()
	y, m, d := now.Date()
	var out []model.DailyAnswer
	for _, a := range s.answers {
		ay, am, ad := a.AnsweredAt.In(now.Location()).Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out
}

// TodayAnswers returns the briefing answers given today, in order.
func (s *Store) TodayAnswers() []model.DailyAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayAnswersLocked()
}

// SubmitAnswer records an answer to the current question. It returns
// true when the briefing is complete for today.
func (s *Store) SubmitAnswer(answer string) (bool, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.answeredTodayLocked()
	if idx >= len(BriefingQuestions) {
		return true, nil
	}

	s.answers = append(s.answers, model.DailyAnswer{
		Question:   BriefingQuestions[idx],
		Answer:     answer,
		AnsweredAt: s.now(),
	})
	if len(s.answers) > maxAnswers {
		s.answers = s.answers[len(s.answers)-maxAnswers:]
	}

	done := idx+1 >= len(BriefingQuestions)
	if done {
		s.logLocked("Daily briefing complete", model.SeveritySuccess)
	} else {
		s.logLocked("Briefing answer recorded", model.SeverityInfo)
	}
	s.commitLocked()
	return done, nil
}

// EnergyTrend returns the last seven energy ratings, oldest first.
// Answers without a leading number count as zero.
func (s *Store) EnergyTrend() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for _, a := range s.answers {
		if strings.Contains(a.Question, "energy") {
			out = append(out, leadingInt(a.Answer))
		}
	}
	if len(out) > 7 {
		out = out[len(out)-7:]
	}
	return out
}

// leadingInt parses "8" or "8/10" as 8.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == 0 {
		return 0
	}
	if end > 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
