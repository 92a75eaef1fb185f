package domain

import "context"

// BarSource supplies an ordered, deduplicated series of bars. The core
// performs no fetching, pagination, or filtering itself.
type BarSource interface {
	Load(ctx context.Context) (Series, error)
}

// SummarySink consumes the ranked result table for reporting or persistence.
type SummarySink interface {
	SaveSummaries(view string, summaries []*Summary) error
}
