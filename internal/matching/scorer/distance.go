package scorer

import "context"

// DistanceProvider resolves the distance, in the deployment's configured
// units, between two free-form locations. Implementations are expected to be
// deterministic; the scorer relies on that for cacheability.
type DistanceProvider interface {
	// Distance returns the distance between the two locations and whether it
	// could be resolved at all.
	Distance(ctx context.Context, a, b string) (float64, bool)
}

// UnknownDistance is a DistanceProvider that never resolves. With it the
// location sub-score falls back to the neutral 50 for distinct cities, which
// is the documented deterministic default when no geo backend is wired.
type UnknownDistance struct{}

func (UnknownDistance) Distance(context.Context, string, string) (float64, bool) {
	return 0, false
}
