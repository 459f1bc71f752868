package domain

// BoundaryRegion summarises one administrative boundary after merging: a
// region's fragmented multi-polygon parts are pre-merged under a single
// region code so hover highlighting treats them as one entity.
type BoundaryRegion struct {
	Code  string `json:"code"` // stable region identifier, e.g. "48020"
	Name  string `json:"name"`
	Parts int    `json:"parts"` // polygon rings merged under this code
}
