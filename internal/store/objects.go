package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/sanitize"
)

// CreateObject inserts a locally authored object. Properties are
// sanitized, a canonical id under domain and a Mastodon alias are
// minted, and the creation time is assigned here at the write path.
func (s *Store) CreateObject(ctx context.Context, domain, objectType string, properties map[string]any, originalActorID string) (*models.Object, error) {
	props, err := sanitize.Properties(properties)
	if err != nil {
		return nil, err
	}
	return s.insertObject(ctx, insertParams{
		domain:          domain,
		objectType:      objectType,
		properties:      props,
		originalActorID: originalActorID,
	})
}

// CreateCachedObject inserts a copy of a remote object, claiming the
// original_object_id slot through the table's unique constraint. If a
// concurrent insert got there first the conflicting row is re-read and
// returned with created=false; the conflict never escapes. Properties
// must already be sanitized by the caller.
func (s *Store) CreateCachedObject(ctx context.Context, domain, objectType string, properties map[string]any, originalActorID, originalObjectID string) (*models.Object, bool, error) {
	if originalObjectID == "" {
		return nil, false, fmt.Errorf("create cached object: original object id is required")
	}

	obj, err := s.insertCached(ctx, insertParams{
		domain:           domain,
		objectType:       objectType,
		properties:       properties,
		originalActorID:  originalActorID,
		originalObjectID: originalObjectID,
	})
	if err != nil {
		return nil, false, err
	}
	if obj != nil {
		return obj, true, nil
	}

	// Lost the race: another delivery of the same remote object
	// committed between our check and our insert. The existing row is
	// the canonical copy.
	existing, err := s.GetObjectByOriginalID(ctx, originalObjectID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("create cached object: conflict on %s but no row found", originalObjectID)
	}
	return existing, false, nil
}

// UpdateObjectProperties replaces the stored properties of the object
// matching id, re-running sanitization so unclean payloads cannot
// bypass the choke point through the update path. The returned bool
// reports whether a row matched; affected-row counts are a best-effort
// signal, not a guarantee every storage engine provides.
func (s *Store) UpdateObjectProperties(ctx context.Context, id string, properties map[string]any) (bool, error) {
	props, err := sanitize.Properties(properties)
	if err != nil {
		return false, err
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return false, fmt.Errorf("update object: marshal properties: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "UPDATE objects SET properties = ? WHERE id = ?", string(propsJSON), id)
	if err != nil {
		return false, fmt.Errorf("update object: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// The update itself succeeded; only the count is unavailable.
		return true, nil
	}
	return affected > 0, nil
}

// GetObjectByID returns the object with the given canonical id, or nil
// if none exists.
func (s *Store) GetObjectByID(ctx context.Context, id string) (*models.Object, error) {
	row := s.db.QueryRowContext(ctx, selectObjectSQL+" WHERE id = ?", id)
	return scanObject(row)
}

// GetObjectByOriginalID returns the cached object for the given origin
// identifier, or nil if none exists.
func (s *Store) GetObjectByOriginalID(ctx context.Context, originalObjectID string) (*models.Object, error) {
	row := s.db.QueryRowContext(ctx, selectObjectSQL+" WHERE original_object_id = ?", originalObjectID)
	return scanObject(row)
}

// GetObjectByMastodonID returns the object with the given alias id, or
// nil if none exists.
func (s *Store) GetObjectByMastodonID(ctx context.Context, mastodonID string) (*models.Object, error) {
	row := s.db.QueryRowContext(ctx, selectObjectSQL+" WHERE mastodon_id = ?", mastodonID)
	return scanObject(row)
}

const selectObjectSQL = `
	SELECT id, type, properties, original_actor_id, original_object_id, local, mastodon_id, cdate
	FROM objects
`

type insertParams struct {
	domain           string
	objectType       string
	properties       map[string]any
	originalActorID  string
	originalObjectID string
}

func (s *Store) insertObject(ctx context.Context, p insertParams) (*models.Object, error) {
	obj, propsJSON, err := materialize(p, true)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO objects (id, type, properties, original_actor_id, original_object_id, local, mastodon_id, cdate)
		VALUES (?, ?, ?, ?, NULL, 1, ?, ?)
	`,
		obj.ID,
		obj.Type,
		propsJSON,
		obj.OriginalActorID,
		obj.MastodonID,
		formatTime(obj.PublishedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create object: %w", err)
	}
	return obj, nil
}

// insertCached returns nil with no error when the unique constraint on
// original_object_id rejected the row.
func (s *Store) insertCached(ctx context.Context, p insertParams) (*models.Object, error) {
	obj, propsJSON, err := materialize(p, false)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO objects (id, type, properties, original_actor_id, original_object_id, local, mastodon_id, cdate)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(original_object_id) DO NOTHING
	`,
		obj.ID,
		obj.Type,
		propsJSON,
		obj.OriginalActorID,
		obj.OriginalObjectID,
		obj.MastodonID,
		formatTime(obj.PublishedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create cached object: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("create cached object: rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return obj, nil
}

func materialize(p insertParams, local bool) (*models.Object, string, error) {
	if p.domain == "" {
		return nil, "", fmt.Errorf("domain is required")
	}
	if p.objectType == "" {
		return nil, "", fmt.Errorf("object type is required")
	}

	propsJSON, err := json.Marshal(p.properties)
	if err != nil {
		return nil, "", fmt.Errorf("marshal properties: %w", err)
	}
	mastodonID, err := NewMastodonID()
	if err != nil {
		return nil, "", fmt.Errorf("mint mastodon id: %w", err)
	}

	return &models.Object{
		ID:               NewObjectURI(p.domain),
		Type:             p.objectType,
		Properties:       p.properties,
		OriginalActorID:  p.originalActorID,
		OriginalObjectID: p.originalObjectID,
		Local:            local,
		MastodonID:       mastodonID,
		PublishedAt:      time.Now().UTC(),
	}, string(propsJSON), nil
}

func scanObject(scanner interface {
	Scan(dest ...any) error
}) (*models.Object, error) {
	var obj models.Object
	var propsJSON string
	var originalObjectID sql.NullString
	var local int
	var cdate string

	if err := scanner.Scan(
		&obj.ID,
		&obj.Type,
		&propsJSON,
		&obj.OriginalActorID,
		&originalObjectID,
		&local,
		&obj.MastodonID,
		&cdate,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(propsJSON), &obj.Properties); err != nil {
		return nil, fmt.Errorf("decode stored properties for %s: %w", obj.ID, err)
	}
	obj.OriginalObjectID = originalObjectID.String
	obj.Local = local != 0

	published, err := parseTime(cdate)
	if err != nil {
		return nil, err
	}
	obj.PublishedAt = published

	return &obj, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
