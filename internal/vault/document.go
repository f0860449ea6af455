package vault

import "strings"

// DefaultDocumentKey is the storage key under which the vault document lives.
const DefaultDocumentKey = "AllEase_Core_V3"

// History caps. Insertions evict the oldest entries beyond the cap.
const (
	MaxMoodEntries = 50
	MaxTopics      = 10
	MaxQuizResults = 20
	MaxEcoEntries  = 50
	MaxSystemLogs  = 100
)

// RegistrationImpactScore is the score assigned to a freshly created profile.
const RegistrationImpactScore = 15.00

// MoodLog is one recorded mood entry.
type MoodLog struct {
	ID        string `json:"id"`
	Mood      string `json:"mood"`
	Timestamp int64  `json:"timestamp"`
}

// Subtopic is one branch of an explored topic.
type Subtopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Topic is one explored knowledge topic.
type Topic struct {
	Topic     string     `json:"topic"`
	Summary   string     `json:"summary"`
	Subtopics []Subtopic `json:"subtopics"`
}

// QuizResult is one completed quiz.
type QuizResult struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
	Timestamp int64  `json:"timestamp"`
}

// EcoAction is one completed sustainability action.
type EcoAction struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

// ApplicationState is the mutable profile payload owned by one user record.
type ApplicationState struct {
	ImpactScore    float64      `json:"impactScore"`
	MoodHistory    []MoodLog    `json:"moodHistory"`
	ExploredTopics []Topic      `json:"exploredTopics"`
	QuizHistory    []QuizResult `json:"quizHistory"`
	EcoHistory     []EcoAction  `json:"ecoHistory"`

	LastActionTimestamp int64 `json:"lastActionTimestamp"`
	// DailyActionCount only ever increases; no calendar reset is applied.
	DailyActionCount int `json:"dailyActionCount"`
}

// NewApplicationState returns the zero profile state for a new registration.
func NewApplicationState(nowMillis int64) ApplicationState {
	return ApplicationState{
		ImpactScore:         RegistrationImpactScore,
		MoodHistory:         []MoodLog{},
		ExploredTopics:      []Topic{},
		QuizHistory:         []QuizResult{},
		EcoHistory:          []EcoAction{},
		LastActionTimestamp: nowMillis,
		DailyActionCount:    0,
	}
}

// UserRecord identifies one registrant and owns its embedded state.
type UserRecord struct {
	Email        string           `json:"email"`
	PasswordHash string           `json:"passwordHash"`
	State        ApplicationState `json:"state"`
}

// LogEntry is one append-only diagnostic event.
type LogEntry struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Timestamp int64  `json:"timestamp"`
}

// Document is the single persisted root object: every write reads the whole
// document, mutates it, and writes the whole document back.
type Document struct {
	Users      map[string]UserRecord `json:"users"`
	SystemLogs []LogEntry            `json:"system_logs"`
}

// NewDocument returns an empty vault document.
func NewDocument() Document {
	return Document{
		Users:      map[string]UserRecord{},
		SystemLogs: []LogEntry{},
	}
}

// NormalizeEmail lower-cases and trims an email before it is used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
