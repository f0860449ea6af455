package vault

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Standard score gains applied by the state transition endpoints.
const (
	GainMood   = 1.00
	GainBreath = 2.00
	GainTopic  = 1.00
	GainEco    = 3.00
)

// AddImpact raises the impact score by gain, clamped to [0, 100] at
// two-decimal precision, and updates the action bookkeeping fields. The score
// never decreases: non-positive gains leave it untouched but still count as
// an action.
func (s *ApplicationState) AddImpact(gain float64, nowMillis int64) {
	if gain > 0 {
		s.ImpactScore = clampScore(s.ImpactScore + gain)
	}
	s.LastActionTimestamp = nowMillis
	s.DailyActionCount++
}

// LogMood prepends a mood entry, evicting the oldest beyond the cap.
func (s *ApplicationState) LogMood(mood string, nowMillis int64) MoodLog {
	entry := MoodLog{ID: uuid.NewString(), Mood: mood, Timestamp: nowMillis}
	s.MoodHistory = prependCapped(s.MoodHistory, entry, MaxMoodEntries)
	return entry
}

// ExploreTopic prepends a topic unless one with the same title (compared
// case-insensitively) already exists; a repeat is a no-op, not a
// move-to-front. Reports whether the topic was inserted.
func (s *ApplicationState) ExploreTopic(topic Topic) bool {
	title := strings.ToLower(strings.TrimSpace(topic.Topic))
	for _, existing := range s.ExploredTopics {
		if strings.ToLower(strings.TrimSpace(existing.Topic)) == title {
			return false
		}
	}
	s.ExploredTopics = prependCapped(s.ExploredTopics, topic, MaxTopics)
	return true
}

// CompleteEcoAction prepends a sustainability action entry.
func (s *ApplicationState) CompleteEcoAction(action string, nowMillis int64) EcoAction {
	entry := EcoAction{ID: uuid.NewString(), Action: action, Timestamp: nowMillis}
	s.EcoHistory = prependCapped(s.EcoHistory, entry, MaxEcoEntries)
	return entry
}

// RecordQuiz prepends a quiz result entry.
func (s *ApplicationState) RecordQuiz(topic string, score, total int, nowMillis int64) QuizResult {
	entry := QuizResult{ID: uuid.NewString(), Topic: topic, Score: score, Total: total, Timestamp: nowMillis}
	s.QuizHistory = prependCapped(s.QuizHistory, entry, MaxQuizResults)
	return entry
}

// clampScore bounds a score to [0, 100] at two-decimal precision.
func clampScore(score float64) float64 {
	rounded := math.Round(score*100) / 100
	if rounded > 100 {
		return 100
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}

// prependCapped inserts entry at the head and drops entries beyond cap.
func prependCapped[T any](entries []T, entry T, cap int) []T {
	out := make([]T, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > cap {
		out = out[:cap]
	}
	return out
}
