package models

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionApproved ConnectionStatus = "approved"
)

// Connection is a directed edge from requester to recipient. PairKey is the
// unordered pair of ids, so at most one edge exists per pair of profiles.
type Connection struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RequesterID string           `json:"requester_id" gorm:"not null;index;size:255"`
	RecipientID string           `json:"recipient_id" gorm:"not null;index;size:255"`
	Status      ConnectionStatus `json:"status" gorm:"not null;size:20;default:pending"`
	PairKey     string           `json:"-" gorm:"not null;uniqueIndex;size:520"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}

// PairKey returns the order-independent key for the pair (a, b).
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// Counterpart returns the id on the other end of the edge from profileID.
func (c *Connection) Counterpart(profileID string) string {
	if c.RequesterID == profileID {
		return c.RecipientID
	}
	return c.RequesterID
}

type ConnectionStats struct {
	Following int `json:"following"`
	Followers int `json:"followers"`
	Network   int `json:"network"`
}

// CountConnections derives the stats of profileID from the edges touching it.
// An edge counts toward following when profileID requested it, toward
// followers when profileID received it, and toward network once approved,
// whichever the direction.
func CountConnections(profileID string, edges []Connection) ConnectionStats {
	var stats ConnectionStats
	for _, e := range edges {
		if e.RequesterID == profileID {
			stats.Following++
		}
		if e.RecipientID == profileID {
			stats.Followers++
		}
		if e.Status == ConnectionApproved {
			stats.Network++
		}
	}
	return stats
}

type RelationStatus string

const (
	RelationNone     RelationStatus = "none"
	RelationPending  RelationStatus = "pending"
	RelationApproved RelationStatus = "approved"
)

// ConnectionRelation describes the edge, if any, between a viewer and a profile
type ConnectionRelation struct {
	Status       RelationStatus `json:"status"`
	IsRequester  bool           `json:"is_requester"`
	ConnectionID *uint          `json:"connection_id,omitempty"`
}

func RelationFromConnection(viewerID string, c *Connection) ConnectionRelation {
	if c == nil {
		return ConnectionRelation{Status: RelationNone}
	}
	id := c.ID
	rel := ConnectionRelation{
		Status:       RelationPending,
		IsRequester:  c.RequesterID == viewerID,
		ConnectionID: &id,
	}
	if c.Status == ConnectionApproved {
		rel.Status = RelationApproved
	}
	return rel
}

type ConnectionDirection string

const (
	DirectionFollowing ConnectionDirection = "following"
	DirectionFollowers ConnectionDirection = "followers"
	DirectionNetwork   ConnectionDirection = "network"
)

func (d ConnectionDirection) IsValid() bool {
	switch d {
	case DirectionFollowing, DirectionFollowers, DirectionNetwork:
		return true
	}
	return false
}
