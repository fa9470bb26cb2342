package pipeline

import "errors"

// Sentinel errors for the three hard failure classes. Everything the
// pipeline can go wrong with wraps one of these; the boundary converts
// them to a tagged Outcome and nothing propagates past Run.
var (
	// ErrValidation: the caller supplied an invalid query shape.
	// Surfaced before any fetch.
	ErrValidation = errors.New("invalid query")

	// ErrTransport: the external fetch could not complete (network
	// failure, non-2xx status, undecodable body). Never retried.
	ErrTransport = errors.New("fetch failed")

	// ErrSchema: the fetch succeeded but the payload does not look like
	// FarmTransData records (missing market-name field).
	ErrSchema = errors.New("unexpected payload shape")
)

// Status tags a pipeline outcome.
type Status string

const (
	StatusOK    Status = "ok"
	StatusEmpty Status = "empty" // query ran fine, zero matching rows
	StatusError Status = "error"
)

// Kind names the failure class of an error outcome.
type Kind string

const (
	KindValidation Kind = "validation"
	KindTransport  Kind = "transport"
	KindSchema     Kind = "schema"
)

// Outcome is what a pipeline invocation resolves to. Exactly one of the
// three statuses applies; Pivot and Table are set only on StatusOK.
type Outcome struct {
	Status  Status `json:"status"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`

	Pivot *PivotSeries  `json:"pivot,omitempty"`
	Table *DisplayTable `json:"table,omitempty"`

	// ObservedMarkets lists every market label present in the fetched
	// data, pre-filter. The same physical market may trade under more
	// than one label; this is the caller's hint when a filter comes up
	// empty.
	ObservedMarkets []string `json:"observed_markets,omitempty"`

	Stats NormalizeStats `json:"stats"`
}

// IsError reports whether the outcome is a hard failure.
func (o Outcome) IsError() bool {
	return o.Status == StatusError
}
