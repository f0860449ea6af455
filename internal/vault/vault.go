// Package vault implements the durable profile store: a single JSON document
// holding every user record and the system log, replaced wholesale on each
// write.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allease/allease-core/internal/security"
	"github.com/allease/allease-core/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Error text is part of the client contract and is rendered verbatim. Login
// deliberately returns the same error whether the identity is unknown or the
// password is wrong.
var (
	ErrDuplicateIdentity  = errors.New("Entity ID collision: User already exists.")
	ErrInvalidCredentials = errors.New("Invalid profile signature.")
)

// Vault provides read-modify-write access to the profile document.
//
// Operations within one process are serialized by a mutex around the whole
// read-modify-write cycle. Across processes sharing a database the store is
// last-write-wins at document granularity; two concurrent writers can race
// and the later write silently discards the earlier one's changes.
type Vault struct {
	store  storage.Store
	hasher security.PasswordHasher
	key    string

	mu sync.Mutex

	now func() time.Time // Clock override for tests.
}

// New constructs a Vault over the given storage port.
func New(store storage.Store, hasher security.PasswordHasher) *Vault {
	return &Vault{
		store:  store,
		hasher: hasher,
		key:    DefaultDocumentKey,
		now:    time.Now,
	}
}

// Users returns every registered record keyed by normalized email. Absent or
// unreadable storage degrades to an empty mapping, never an error.
func (v *Vault) Users(ctx context.Context) map[string]UserRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.load(ctx).Users
}

// Logs returns the system log, newest-first.
func (v *Vault) Logs(ctx context.Context) []LogEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.load(ctx).SystemLogs
}

// Register creates a user record for the normalized email with a freshly
// hashed password and a zero profile state.
func (v *Vault) Register(ctx context.Context, email, password string) (UserRecord, error) {
	cleanEmail := NormalizeEmail(email)

	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.load(ctx)
	if _, exists := doc.Users[cleanEmail]; exists {
		return UserRecord{}, ErrDuplicateIdentity
	}

	hash, errHash := v.hasher.Hash(password)
	if errHash != nil {
		return UserRecord{}, fmt.Errorf("vault: hash password: %w", errHash)
	}

	record := UserRecord{
		Email:        cleanEmail,
		PasswordHash: hash,
		State:        NewApplicationState(v.nowMillis()),
	}
	doc.Users[cleanEmail] = record
	v.appendLog(&doc, "REGISTRATION_SUCCESS: "+cleanEmail)

	if errSave := v.save(ctx, doc); errSave != nil {
		return UserRecord{}, errSave
	}
	return record, nil
}

// Login verifies credentials for the normalized email and returns the stored
// record.
func (v *Vault) Login(ctx context.Context, email, password string) (UserRecord, error) {
	cleanEmail := NormalizeEmail(email)

	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.load(ctx)
	record, exists := doc.Users[cleanEmail]
	if !exists {
		return UserRecord{}, ErrInvalidCredentials
	}
	if !v.hasher.Verify(record.PasswordHash, password) {
		return UserRecord{}, ErrInvalidCredentials
	}

	v.appendLog(&doc, "AUTH_GRANTED: "+cleanEmail)
	if errSave := v.save(ctx, doc); errSave != nil {
		return UserRecord{}, errSave
	}
	return record, nil
}

// SaveState wholesale-replaces the stored profile state for the normalized
// email. Unknown emails are a silent no-op.
func (v *Vault) SaveState(ctx context.Context, email string, state ApplicationState) error {
	cleanEmail := NormalizeEmail(email)

	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.load(ctx)
	record, exists := doc.Users[cleanEmail]
	if !exists {
		return nil
	}
	record.State = state
	doc.Users[cleanEmail] = record
	return v.save(ctx, doc)
}

// UpdateState applies mutate to the stored profile state under the vault
// lock and persists the result. Unknown emails are a silent no-op.
func (v *Vault) UpdateState(ctx context.Context, email string, mutate func(*ApplicationState)) (ApplicationState, error) {
	cleanEmail := NormalizeEmail(email)

	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.load(ctx)
	record, exists := doc.Users[cleanEmail]
	if !exists {
		return ApplicationState{}, nil
	}
	mutate(&record.State)
	doc.Users[cleanEmail] = record
	if errSave := v.save(ctx, doc); errSave != nil {
		return ApplicationState{}, errSave
	}
	return record.State, nil
}

// NowMillis returns the vault clock reading in unix milliseconds.
func (v *Vault) NowMillis() int64 {
	return v.nowMillis()
}

// load reads the current document, degrading absent or corrupt storage to an
// empty document.
func (v *Vault) load(ctx context.Context) Document {
	data, ok, err := v.store.Read(ctx, v.key)
	if err != nil {
		log.WithError(err).Warn("vault read failed, using empty document")
		return NewDocument()
	}
	if !ok {
		return NewDocument()
	}

	var doc Document
	if errUnmarshal := json.Unmarshal(data, &doc); errUnmarshal != nil {
		log.WithError(errUnmarshal).Warn("vault document corrupt, using empty document")
		return NewDocument()
	}
	if doc.Users == nil {
		doc.Users = map[string]UserRecord{}
	}
	if doc.SystemLogs == nil {
		doc.SystemLogs = []LogEntry{}
	}
	return doc
}

// save persists the whole document.
func (v *Vault) save(ctx context.Context, doc Document) error {
	data, errMarshal := json.Marshal(doc)
	if errMarshal != nil {
		return fmt.Errorf("vault: marshal document: %w", errMarshal)
	}
	if errWrite := v.store.Write(ctx, v.key, data); errWrite != nil {
		return fmt.Errorf("vault: write document: %w", errWrite)
	}
	return nil
}

// appendLog prepends a system log entry, evicting beyond the cap.
func (v *Vault) appendLog(doc *Document, event string) {
	entry := LogEntry{ID: uuid.NewString(), Event: event, Timestamp: v.nowMillis()}
	doc.SystemLogs = prependCapped(doc.SystemLogs, entry, MaxSystemLogs)
}

func (v *Vault) nowMillis() int64 {
	return v.now().UnixMilli()
}
