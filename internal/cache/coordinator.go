// Package cache decides whether an inbound remote object is new to
// this node or already known. It is the idempotence layer above the
// object store: repeated, unordered, concurrent deliveries of the same
// remote object all converge on a single stored row.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/sanitize"
	"github.com/HinanoAira/wildebeest/internal/store"
)

// PeerRegistry records remote hosts this node has exchanged objects
// with. Registrations are idempotent on the registry's side.
type PeerRegistry interface {
	RegisterPeer(ctx context.Context, domain string) error
}

// Coordinator caches remote objects into the local store.
type Coordinator struct {
	store  *store.Store
	peers  PeerRegistry
	domain string
	logger *slog.Logger
}

// New creates a coordinator minting local ids under domain.
func New(st *store.Store, peers PeerRegistry, domain string, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: st, peers: peers, domain: domain, logger: logger}
}

// CacheObject stores a remote object on first sight and returns the
// existing copy on every later delivery. The object's type tag is
// taken from the payload's type field. The returned bool is true only
// for the call that actually created the row.
//
// The existence check and the insert are not atomic; when concurrent
// deliveries race past the check, the store's uniqueness constraint on
// the origin id picks one winner and every loser re-reads the winning
// row. Callers never observe the conflict.
func (c *Coordinator) CacheObject(ctx context.Context, properties map[string]any, originalActorID, originalObjectID string) (*models.Object, bool, error) {
	if originalObjectID == "" {
		return nil, false, fmt.Errorf("cache object: original object id is required")
	}

	props, err := sanitize.Properties(properties)
	if err != nil {
		return nil, false, err
	}

	objectType, ok := props["type"].(string)
	if !ok || objectType == "" {
		return nil, false, fmt.Errorf("cache object: payload carries no type tag")
	}

	existing, err := c.store.GetObjectByOriginalID(ctx, originalObjectID)
	if err != nil {
		return nil, false, fmt.Errorf("cache object: lookup: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	obj, created, err := c.store.CreateCachedObject(ctx, c.domain, objectType, props, originalActorID, originalObjectID)
	if err != nil {
		return nil, false, err
	}

	if created {
		c.notifyPeer(ctx, originalObjectID)
	}
	return obj, created, nil
}

// notifyPeer records the origin host of a newly cached object. The
// object row is already committed at this point; a registry failure is
// logged rather than surfaced, since the registry is idempotent and
// the next first contact with the host repairs it.
func (c *Coordinator) notifyPeer(ctx context.Context, originalObjectID string) {
	host := originHost(originalObjectID)
	if host == "" {
		c.logger.Warn("cached object has no origin host", "original_object_id", originalObjectID)
		return
	}
	if err := c.peers.RegisterPeer(ctx, host); err != nil {
		c.logger.Warn("register peer failed", "host", host, "error", err)
	}
}

func originHost(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Host
}
