package models

// Document is the root of the persisted state: one JSON object with three
// lists. The on-disk layout doubles as the export format consumed by the
// frontend tooling, so field names must stay stable.
type Document struct {
	Tracks []Track `json:"tracks"`
	Shares []Share `json:"shares"`
	Votes  []Vote  `json:"votes"`
}

// Normalize replaces nil lists with empty ones so callers never need
// defensive checks after a load.
func (d *Document) Normalize() {
	if d.Tracks == nil {
		d.Tracks = []Track{}
	}
	if d.Shares == nil {
		d.Shares = []Share{}
	}
	if d.Votes == nil {
		d.Votes = []Vote{}
	}
}

// Stats summarizes submissions by lifecycle state.
type Stats struct {
	TotalSubmissions int `json:"totalSubmissions"`
	Pending          int `json:"pending"`
	Approved         int `json:"approved"`
	Rejected         int `json:"rejected"`
}
