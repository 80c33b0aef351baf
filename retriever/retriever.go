package retriever

import "context"

// Document is one retrieved meeting summary, ranked by ascending vector
// distance. Content carries an explicit error placeholder when the stored
// summary is missing, so rank positions are never silently dropped.
type Document struct {
	MeetingId string
	Content   string
	Distance  float32
}

type Retriever interface {
	// FindSimilar ranks stored meeting summaries by distance to vector,
	// closest first, restricted to the given team. The team id is a
	// required argument: retrieval without a scope is how documents leak
	// across tenants.
	FindSimilar(ctx context.Context, teamId string, vector []float32, opts ...SearchOption) ([]Document, error)
}
