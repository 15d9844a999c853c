package models

import "time"

// Peer is a remote host this node has exchanged at least one cached
// object with.
type Peer struct {
	Domain    string    `json:"domain"`
	FirstSeen time.Time `json:"first_seen"`
}
