package models

import "time"

// Object is a single federated entity (post, document, media wrapper)
// stored by this node. It is either authored locally or a cached copy
// of an object whose authoritative version lives on a remote peer.
//
// All fields except Properties are immutable after creation.
type Object struct {
	// ID is the canonical local identifier, an https URI under this
	// node's domain. Unique across all objects.
	ID string `json:"id"`

	// Type is the ActivityStreams type tag, e.g. "Note" or "Document".
	Type string `json:"type"`

	// Properties holds the sanitized protocol payload.
	Properties map[string]any `json:"properties"`

	// OriginalActorID identifies the authoring actor, local or remote.
	OriginalActorID string `json:"original_actor_id"`

	// OriginalObjectID identifies the object at its origin. Set only
	// for cached remote objects; empty for locally authored ones. At
	// most one stored object exists per distinct value.
	OriginalObjectID string `json:"original_object_id,omitempty"`

	// Local is true if the object was authored on this node.
	Local bool `json:"local"`

	// MastodonID is a stable opaque alias decoupled from the canonical
	// id, assigned once at creation for the compatibility API layer.
	MastodonID string `json:"mastodon_id"`

	// PublishedAt is the storage-assigned creation time.
	PublishedAt time.Time `json:"published_at"`
}

// Common ActivityStreams type tags. The vocabulary is open: cached
// remote objects may carry any type, these are the ones this node
// authors itself.
const (
	TypeNote     = "Note"
	TypeDocument = "Document"
	TypeImage    = "Image"
	TypeVideo    = "Video"
)

// ActivityStream returns the public, wire-visible projection of the
// object: the stored properties merged with the structural fields,
// structural fields winning on key collision. The origin identifiers
// and the Mastodon alias never appear in this view.
func (o *Object) ActivityStream() map[string]any {
	doc := make(map[string]any, len(o.Properties)+3)
	for k, v := range o.Properties {
		doc[k] = v
	}
	doc["id"] = o.ID
	doc["type"] = o.Type
	doc["published"] = o.PublishedAt.UTC().Format(time.RFC3339)
	return doc
}
