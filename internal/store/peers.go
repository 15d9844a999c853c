package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/HinanoAira/wildebeest/internal/models"
)

// RegisterPeer records a remote host this node has exchanged an object
// with. Repeated registrations of the same host are no-ops.
func (s *Store) RegisterPeer(ctx context.Context, domain string) error {
	if domain == "" {
		return fmt.Errorf("peer domain is required")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO peers (domain, first_seen) VALUES (?, ?)",
		domain, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("register peer: %w", err)
	}
	return nil
}

// GetPeer returns the peer with the given domain, or nil if unknown.
func (s *Store) GetPeer(ctx context.Context, domain string) (*models.Peer, error) {
	var peer models.Peer
	var firstSeen string
	err := s.db.QueryRowContext(ctx,
		"SELECT domain, first_seen FROM peers WHERE domain = ?", domain,
	).Scan(&peer.Domain, &firstSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seen, err := parseTime(firstSeen)
	if err != nil {
		return nil, err
	}
	peer.FirstSeen = seen
	return &peer, nil
}

// ListPeers returns all known peers ordered by domain.
func (s *Store) ListPeers(ctx context.Context) ([]models.Peer, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT domain, first_seen FROM peers ORDER BY domain ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var peers []models.Peer
	for rows.Next() {
		var peer models.Peer
		var firstSeen string
		if err := rows.Scan(&peer.Domain, &firstSeen); err != nil {
			return nil, err
		}
		seen, err := parseTime(firstSeen)
		if err != nil {
			return nil, err
		}
		peer.FirstSeen = seen
		peers = append(peers, peer)
	}
	return peers, rows.Err()
}
