package model

import "time"

// Snapshot is a stored copy of a category graph with summary counts.
type Snapshot struct {
	// ID is the database identifier.
	ID int64 `json:"id"`

	// RootNode and RootCategoryURL identify the crawl origin.
	RootNode        string `json:"root_node"`
	RootCategoryURL string `json:"root_category_url"`

	// Counts at the time the snapshot was taken.
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
	Pages  int `json:"pages"`
	Cycles int `json:"cycles"`

	// CreatedAt is when the snapshot was stored.
	CreatedAt time.Time `json:"created_at"`

	// Graph is the persisted graph document. It is only populated when a
	// single snapshot is loaded.
	Graph []byte `json:"-"`
}
