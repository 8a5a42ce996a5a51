package remedy

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Client is an explicit store handle: constructed once by the process entry
// point and passed by reference to every consumer. There is no shared
// default instance.
type Client struct {
	store   Store
	matcher Matcher
	session *Session
	config  Config
	debug   *DebugLogger
}

// New creates a client from a config, opening the configured backend.
func New(cfg Config) (*Client, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		st  Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory:
		st = NewMemoryStore()
	case BackendSQLite:
		st, err = NewSQLiteStore(cfg.Path)
	default:
		st, err = NewFileStore(cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	debug, err := NewDebugLogger(cfg.Debug, cfg.DebugLogPath)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("client: %w", err)
	}

	return &Client{
		store:   st,
		session: NewSession(),
		config:  cfg,
		debug:   debug,
	}, nil
}

// NewWithStore creates a client around an already constructed backend.
// Useful for tests and for callers that manage backend lifecycle themselves.
func NewWithStore(st Store, cfg Config) *Client {
	return &Client{
		store:   st,
		session: NewSession(),
		config:  cfg.WithDefaults(),
	}
}

// Store exposes the underlying backend for consumers that need the raw
// contract.
func (c *Client) Store() Store { return c.store }

// SavePattern upserts a pattern, generating a ULID when the caller supplies
// no ID and stamping the client's source ID when unset.
func (c *Client) SavePattern(p *ResolutionPattern) error {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	if p.SourceID == "" {
		p.SourceID = c.config.SourceID
	}

	err := c.store.SavePattern(p)
	c.debug.LogOp("save "+p.ID, err)
	return err
}

// LoadPattern retrieves a pattern by ID, or ErrNotFound.
func (c *Client) LoadPattern(id string) (*ResolutionPattern, error) {
	return c.store.LoadPattern(id)
}

// ReportSuccess records a successful application of the pattern with the
// observed resolution duration. ref may be a session ref (P1), a pattern
// ID, or a signature snippet of a pattern surfaced this session.
func (c *Client) ReportSuccess(ref string, resolutionTime time.Duration) (*ResolutionPattern, error) {
	id := c.resolveRef(ref)
	p, err := c.store.UpdatePatternSuccess(id, resolutionTime)
	c.debug.LogOp("success "+id, err)
	return p, err
}

// ReportFailure records a failed application of the pattern.
func (c *Client) ReportFailure(ref string) (*ResolutionPattern, error) {
	id := c.resolveRef(ref)
	p, err := c.store.UpdatePatternFailure(id)
	c.debug.LogOp("failure "+id, err)
	return p, err
}

// AddFeedback appends a free-form feedback entry to the pattern.
func (c *Client) AddFeedback(ref, feedback string) error {
	id := c.resolveRef(ref)
	err := c.store.AddPatternFeedback(id, feedback)
	c.debug.LogOp("feedback "+id, err)
	return err
}

// DeletePattern removes a pattern, reporting whether it existed.
func (c *Client) DeletePattern(id string) (bool, error) {
	existed, err := c.store.DeletePattern(id)
	c.debug.LogOp("delete "+id, err)
	return existed, err
}

// FindSimilarPatterns scores stored problem signatures against a free-text
// query and returns matches at or above the threshold, best first. Matched
// patterns are tracked in the session for later outcome reporting.
func (c *Client) FindSimilarPatterns(query string, threshold float64) ([]PatternMatch, error) {
	if threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	patterns, err := c.store.LoadAllPatterns()
	if err != nil {
		return nil, err
	}

	matches := c.matcher.Match(query, patterns, threshold)
	for _, m := range matches {
		c.session.Track(m.Pattern.ID)
	}
	return matches, nil
}

// RetrievePatternsByRank returns patterns at or above the minimum
// confidence, sorted descending by the chosen key. Retrieved patterns are
// tracked in the session for later outcome reporting.
func (c *Client) RetrievePatternsByRank(params RankParams) ([]ResolutionPattern, error) {
	patterns, err := c.store.LoadAllPatterns()
	if err != nil {
		return nil, err
	}

	ranked, err := RankPatterns(patterns, params)
	if err != nil {
		return nil, err
	}

	for i := range ranked {
		c.session.Track(ranked[i].ID)
	}
	return ranked, nil
}

// TrackIssue bumps the occurrence counter for an issue signature, creating
// the entry on first sighting.
func (c *Client) TrackIssue(signature, context string) (*CommonIssue, error) {
	issue, err := c.store.UpdateCommonIssue(signature, context)
	c.debug.LogOp("issue "+signature, err)
	return issue, err
}

// SaveCommonIssue upserts an issue keyed by signature.
func (c *Client) SaveCommonIssue(issue *CommonIssue) error {
	return c.store.SaveCommonIssue(issue)
}

// CommonIssues returns all tracked issues.
func (c *Client) CommonIssues() ([]CommonIssue, error) {
	return c.store.LoadCommonIssues()
}

// PruneOldPatterns evicts patterns unused for longer than maxAge and
// returns the number removed. Recency alone governs eviction: a pattern
// with perfect historical confidence but no recent use may target an
// environment that no longer exists.
func (c *Client) PruneOldPatterns(maxAge time.Duration) (int, error) {
	removed, err := c.store.PruneOldPatterns(maxAge)
	c.debug.LogOp(fmt.Sprintf("prune removed=%d", removed), err)
	return removed, err
}

// Statistics computes aggregate stats from the current repository snapshot.
func (c *Client) Statistics() (*PatternStats, error) {
	patterns, err := c.store.LoadAllPatterns()
	if err != nil {
		return nil, err
	}
	return ComputePatternStats(patterns), nil
}

// SessionPatterns returns all patterns surfaced this session.
func (c *Client) SessionPatterns() []SessionPattern {
	all := c.session.All()
	result := make([]SessionPattern, 0, len(all))

	for ref, id := range all {
		p, err := c.store.LoadPattern(id)
		if err != nil {
			continue
		}
		result = append(result, SessionPattern{
			SessionRef: ref,
			ID:         id,
			Signature:  p.Signature,
			Confidence: p.Confidence,
		})
	}
	return result
}

// resolveRef maps a session ref, ID, or signature snippet to a pattern ID.
// Unresolvable refs pass through unchanged so the store can report
// ErrNotFound with the caller's original value.
func (c *Client) resolveRef(ref string) string {
	id, ok := c.session.FuzzyMatch(ref, func(id string) string {
		p, err := c.store.LoadPattern(id)
		if err != nil {
			return ""
		}
		return p.Signature
	})
	if !ok {
		return ref
	}
	return id
}

// Close closes the client and its backend.
func (c *Client) Close() error {
	if c.debug != nil {
		_ = c.debug.Close()
	}
	return c.store.Close()
}
