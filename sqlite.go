package remedy

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hyperengineering/remedy/internal/store/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// sqliteTimeLayout is a fixed-width RFC 3339 layout for timestamp columns.
// RFC3339Nano trims trailing fractional zeros, so its strings do not compare
// in time order ("...T10:00:00Z" sorts after "...T10:00:00.5Z"); fixed-width
// fractions keep string order identical to time order, which the prune
// cutoff and ORDER BY clauses rely on.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore is an alternative durable backend behind the same Store
// contract, for deployments that outgrow the single JSON document. WAL mode
// gives it safer behavior when the one-writer-at-a-time assumption of
// FileStore cannot be guaranteed.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// NewSQLiteStore opens or creates a SQLite-backed store at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "."); err != nil {
		return fmt.Errorf("store: run migrations: %w", err)
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', ?)
	`, schemaVersion)
	return err
}

// SavePattern upserts a pattern by ID.
func (s *SQLiteStore) SavePattern(p *ResolutionPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if err := validatePattern(p); err != nil {
		return err
	}

	stored := clonePattern(p)
	normalizePattern(stored, time.Now().UTC())

	feedback, err := encodeStrings(stored.UserFeedback)
	if err != nil {
		return fmt.Errorf("store: encode feedback: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO resolution_patterns (
			id, problem_type, problem_signature,
			solution_schema_version, solution_data,
			success_count, failure_count, average_resolution_time_ms,
			confidence, last_used, user_feedback, source_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			problem_type = excluded.problem_type,
			problem_signature = excluded.problem_signature,
			solution_schema_version = excluded.solution_schema_version,
			solution_data = excluded.solution_data,
			success_count = excluded.success_count,
			failure_count = excluded.failure_count,
			average_resolution_time_ms = excluded.average_resolution_time_ms,
			confidence = excluded.confidence,
			last_used = excluded.last_used,
			user_feedback = excluded.user_feedback,
			source_id = excluded.source_id,
			updated_at = excluded.updated_at
	`,
		stored.ID,
		stored.ProblemType,
		stored.Signature,
		stored.Solution.SchemaVersion,
		nullBytes(stored.Solution.Data),
		stored.SuccessCount,
		stored.FailureCount,
		stored.AvgResolutionMs,
		stored.Confidence,
		stored.LastUsed.Format(sqliteTimeLayout),
		feedback,
		nullString(stored.SourceID),
		stored.CreatedAt.Format(sqliteTimeLayout),
		stored.UpdatedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: save pattern: %w", err)
	}

	*p = *stored
	return nil
}

// LoadPattern retrieves a pattern by ID.
func (s *SQLiteStore) LoadPattern(id string) (*ResolutionPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.getPattern(id)
}

func (s *SQLiteStore) getPattern(id string) (*ResolutionPattern, error) {
	row := s.db.QueryRow(`
		SELECT id, problem_type, problem_signature,
		       solution_schema_version, solution_data,
		       success_count, failure_count, average_resolution_time_ms,
		       confidence, last_used, user_feedback, source_id, created_at, updated_at
		FROM resolution_patterns WHERE id = ?
	`, id)
	return scanPattern(row)
}

// UpdatePatternSuccess records a successful application of the pattern.
func (s *SQLiteStore) UpdatePatternSuccess(id string, resolutionTime time.Duration) (*ResolutionPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	p, err := s.getPattern(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applySuccess(p, durationMs(resolutionTime))
	p.LastUsed = now
	p.UpdatedAt = now

	_, err = s.db.Exec(`
		UPDATE resolution_patterns
		SET success_count = ?, average_resolution_time_ms = ?, confidence = ?,
		    last_used = ?, updated_at = ?
		WHERE id = ?
	`,
		p.SuccessCount,
		p.AvgResolutionMs,
		p.Confidence,
		p.LastUsed.Format(sqliteTimeLayout),
		p.UpdatedAt.Format(sqliteTimeLayout),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("store: update success: %w", err)
	}
	return p, nil
}

// UpdatePatternFailure records a failed application of the pattern.
func (s *SQLiteStore) UpdatePatternFailure(id string) (*ResolutionPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	p, err := s.getPattern(id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyFailure(p)
	p.LastUsed = now
	p.UpdatedAt = now

	_, err = s.db.Exec(`
		UPDATE resolution_patterns
		SET failure_count = ?, confidence = ?, last_used = ?, updated_at = ?
		WHERE id = ?
	`,
		p.FailureCount,
		p.Confidence,
		p.LastUsed.Format(sqliteTimeLayout),
		p.UpdatedAt.Format(sqliteTimeLayout),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("store: update failure: %w", err)
	}
	return p, nil
}

// AddPatternFeedback appends a feedback entry to the pattern.
func (s *SQLiteStore) AddPatternFeedback(id, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if len(feedback) > MaxFeedbackLength {
		return ErrFeedbackTooLong
	}

	p, err := s.getPattern(id)
	if err != nil {
		return err
	}

	p.UserFeedback = append(p.UserFeedback, feedback)
	encoded, err := encodeStrings(p.UserFeedback)
	if err != nil {
		return fmt.Errorf("store: encode feedback: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE resolution_patterns SET user_feedback = ?, updated_at = ? WHERE id = ?
	`, encoded, time.Now().UTC().Format(sqliteTimeLayout), id)
	if err != nil {
		return fmt.Errorf("store: add feedback: %w", err)
	}
	return nil
}

// DeletePattern removes a pattern, reporting whether it existed.
func (s *SQLiteStore) DeletePattern(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStoreClosed
	}

	res, err := s.db.Exec(`DELETE FROM resolution_patterns WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: delete pattern: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LoadAllPatterns returns a snapshot in insertion order.
func (s *SQLiteStore) LoadAllPatterns() ([]ResolutionPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT id, problem_type, problem_signature,
		       solution_schema_version, solution_data,
		       success_count, failure_count, average_resolution_time_ms,
		       confidence, last_used, user_feedback, source_id, created_at, updated_at
		FROM resolution_patterns ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: load patterns: %w", err)
	}
	defer rows.Close()

	var results []ResolutionPattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}

// SaveCommonIssue upserts an issue keyed by signature.
func (s *SQLiteStore) SaveCommonIssue(issue *CommonIssue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if issue.Signature == "" {
		return ErrEmptySignature
	}

	stored := cloneIssue(issue)
	normalizeIssue(stored, time.Now().UTC())

	solutions, err := encodeStrings(stored.Solutions)
	if err != nil {
		return fmt.Errorf("store: encode solutions: %w", err)
	}
	contexts, err := encodeStrings(stored.Contexts)
	if err != nil {
		return fmt.Errorf("store: encode contexts: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO common_issues (signature, occurrences, solutions, contexts, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(signature) DO UPDATE SET
			occurrences = excluded.occurrences,
			solutions = excluded.solutions,
			contexts = excluded.contexts,
			last_seen = excluded.last_seen
	`,
		stored.Signature,
		stored.Occurrences,
		solutions,
		contexts,
		stored.FirstSeen.Format(sqliteTimeLayout),
		stored.LastSeen.Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("store: save issue: %w", err)
	}
	return nil
}

// UpdateCommonIssue bumps the occurrence counter for a signature.
func (s *SQLiteStore) UpdateCommonIssue(signature, context string) (*CommonIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if signature == "" {
		return nil, ErrEmptySignature
	}

	issue, err := s.getIssue(signature)
	now := time.Now().UTC()
	switch {
	case err == ErrNotFound:
		issue = &CommonIssue{
			Signature:   signature,
			Occurrences: 1,
			FirstSeen:   now,
			LastSeen:    now,
		}
		issue.Contexts = appendUnique(issue.Contexts, context)
	case err != nil:
		return nil, err
	default:
		issue.Occurrences++
		issue.Contexts = appendUnique(issue.Contexts, context)
		issue.LastSeen = now
	}

	solutions, err := encodeStrings(issue.Solutions)
	if err != nil {
		return nil, fmt.Errorf("store: encode solutions: %w", err)
	}
	contexts, err := encodeStrings(issue.Contexts)
	if err != nil {
		return nil, fmt.Errorf("store: encode contexts: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO common_issues (signature, occurrences, solutions, contexts, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(signature) DO UPDATE SET
			occurrences = excluded.occurrences,
			solutions = excluded.solutions,
			contexts = excluded.contexts,
			last_seen = excluded.last_seen
	`,
		issue.Signature,
		issue.Occurrences,
		solutions,
		contexts,
		issue.FirstSeen.Format(sqliteTimeLayout),
		issue.LastSeen.Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("store: update issue: %w", err)
	}
	return issue, nil
}

func (s *SQLiteStore) getIssue(signature string) (*CommonIssue, error) {
	row := s.db.QueryRow(`
		SELECT signature, occurrences, solutions, contexts, first_seen, last_seen
		FROM common_issues WHERE signature = ?
	`, signature)
	return scanIssue(row)
}

// LoadCommonIssues returns a snapshot ordered by signature.
func (s *SQLiteStore) LoadCommonIssues() ([]CommonIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT signature, occurrences, solutions, contexts, first_seen, last_seen
		FROM common_issues ORDER BY signature
	`)
	if err != nil {
		return nil, fmt.Errorf("store: load issues: %w", err)
	}
	defer rows.Close()

	var results []CommonIssue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *issue)
	}
	return results, rows.Err()
}

// PruneOldPatterns removes patterns unused for longer than maxAge.
func (s *SQLiteStore) PruneOldPatterns(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.Exec(`
		DELETE FROM resolution_patterns WHERE last_used < ?
	`, cutoff.Format(sqliteTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("store: prune patterns: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// scanner abstracts the Scan method shared by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPattern scans a single pattern row from any scanner (Row or Rows).
// Returns ErrNotFound for sql.ErrNoRows.
func scanPattern(sc scanner) (*ResolutionPattern, error) {
	var (
		p           ResolutionPattern
		schemaVer   string
		data        []byte
		feedback    sql.NullString
		sourceID    sql.NullString
		lastUsed    string
		createdAt   string
		updatedAt   string
	)

	err := sc.Scan(
		&p.ID,
		&p.ProblemType,
		&p.Signature,
		&schemaVer,
		&data,
		&p.SuccessCount,
		&p.FailureCount,
		&p.AvgResolutionMs,
		&p.Confidence,
		&lastUsed,
		&feedback,
		&sourceID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Solution.SchemaVersion = schemaVer
	if len(data) > 0 {
		p.Solution.Data = json.RawMessage(data)
	}
	if feedback.Valid {
		p.UserFeedback, _ = decodeStrings(feedback.String)
	}
	if sourceID.Valid {
		p.SourceID = sourceID.String
	}
	p.LastUsed, _ = time.Parse(time.RFC3339Nano, lastUsed)
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

	return &p, nil
}

// scanIssue scans a single issue row from any scanner.
func scanIssue(sc scanner) (*CommonIssue, error) {
	var (
		issue     CommonIssue
		solutions sql.NullString
		contexts  sql.NullString
		firstSeen string
		lastSeen  string
	)

	err := sc.Scan(
		&issue.Signature,
		&issue.Occurrences,
		&solutions,
		&contexts,
		&firstSeen,
		&lastSeen,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if solutions.Valid {
		issue.Solutions, _ = decodeStrings(solutions.String)
	}
	if contexts.Valid {
		issue.Contexts, _ = decodeStrings(contexts.String)
	}
	issue.FirstSeen, _ = time.Parse(time.RFC3339Nano, firstSeen)
	issue.LastSeen, _ = time.Parse(time.RFC3339Nano, lastSeen)

	return &issue, nil
}

// encodeStrings stores a string set as a JSON array column, nil for empty.
func encodeStrings(values []string) (*string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// decodeStrings parses a JSON array column.
func decodeStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
