// Package query exposes a deliberately tiny read-only command surface over
// the vault. Commands are matched against a closed set of literal patterns;
// there is no SQL parser and nothing here ever writes to storage.
//
// The logs command returns the full system log with no per-user scoping.
// That mirrors the long-standing behavior of the surface; callers wanting
// scoped logs need a new command, not a silent change to this one.
package query

import (
	"context"
	"strings"

	"github.com/allease/allease-core/internal/vault"
)

// Redaction placeholders returned instead of per-user secrets.
const (
	RedactedHash   = "[PROTECTED_BY_HASH]"
	RedactedState  = "{ACTIVE_PARTITION}"
	RedactedStatus = "ENCRYPTED"
)

// RejectionMessage is returned for any command outside the recognized set.
const RejectionMessage = "Access Denied: SQL command outside allowed neural scope."

// Command is one recognized command kind.
type Command int

const (
	// CommandUnknown rejects the input.
	CommandUnknown Command = iota
	// CommandSelectUsers lists user records.
	CommandSelectUsers
	// CommandSelectLogs lists system log entries.
	CommandSelectLogs
)

// Classify normalizes the raw command text and maps it onto the closed
// command set.
func Classify(raw string) Command {
	command := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(command, "select * from users"):
		return CommandSelectUsers
	case strings.Contains(command, "select * from logs"):
		return CommandSelectLogs
	default:
		return CommandUnknown
	}
}

// UserRow is one redacted user projection.
type UserRow struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	State        string `json:"state,omitempty"`
	Status       string `json:"status,omitempty"`
}

// LogRow is one system log projection.
type LogRow struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Timestamp int64  `json:"timestamp"`
}

// Result is the outcome of one command. Rejections are data, not errors:
// callers must check Rejected before reading rows.
type Result struct {
	Command  Command
	Users    []UserRow
	Logs     []LogRow
	Rejected bool
	Message  string
}

// Shim executes recognized commands against the vault.
type Shim struct {
	vault *vault.Vault
}

// NewShim constructs a Shim over the vault.
func NewShim(v *vault.Vault) *Shim {
	return &Shim{vault: v}
}

// Execute runs one command. When actingEmail is non-empty the users command
// returns only that identity's own redacted row; anonymous callers get the
// whole roster with every field but the email redacted away.
func (s *Shim) Execute(ctx context.Context, raw, actingEmail string) Result {
	switch Classify(raw) {
	case CommandSelectUsers:
		return Result{Command: CommandSelectUsers, Users: s.userRows(ctx, actingEmail)}
	case CommandSelectLogs:
		logs := s.vault.Logs(ctx)
		rows := make([]LogRow, 0, len(logs))
		for _, entry := range logs {
			rows = append(rows, LogRow{ID: entry.ID, Event: entry.Event, Timestamp: entry.Timestamp})
		}
		return Result{Command: CommandSelectLogs, Logs: rows}
	default:
		return Result{Command: CommandUnknown, Rejected: true, Message: RejectionMessage}
	}
}

// userRows builds the redacted user projection for the acting identity.
func (s *Shim) userRows(ctx context.Context, actingEmail string) []UserRow {
	users := s.vault.Users(ctx)

	if clean := vault.NormalizeEmail(actingEmail); clean != "" {
		rows := make([]UserRow, 0, 1)
		if record, ok := users[clean]; ok {
			rows = append(rows, UserRow{
				Email:        record.Email,
				PasswordHash: RedactedHash,
				State:        RedactedState,
			})
		}
		return rows
	}

	rows := make([]UserRow, 0, len(users))
	for _, record := range users {
		rows = append(rows, UserRow{Email: record.Email, Status: RedactedStatus})
	}
	return rows
}
