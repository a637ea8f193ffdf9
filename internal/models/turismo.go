package models

// Turismo is one origin-destination tourism flow with a time range and visitor total
type Turismo struct {
	ID        string     `json:"_id"`
	From      *Location  `json:"from" validate:"required"`
	To        *Location  `json:"to"`
	TimeRange *TimeRange `json:"timeRange" validate:"required"`
	Total     int        `json:"total"`
}

// Location identifies a region by community and province
type Location struct {
	Comunidad string `json:"comunidad"`
	Provincia string `json:"provincia"`
}

// TimeRange is the period a record covers. Dates are ISO YYYY-MM-DD strings.
type TimeRange struct {
	FechaInicio string `json:"fecha_inicio"`
	FechaFin    string `json:"fecha_fin"`
	Period      string `json:"period"`
}

// UpdateTurismoRequest is the request body for updating a record.
// Any client supplied id is ignored.
type UpdateTurismoRequest struct {
	From      *Location  `json:"from"`
	To        *Location  `json:"to"`
	TimeRange *TimeRange `json:"timeRange"`
	Total     int        `json:"total"`
}

// TurismoListParams contains parameters for listing records.
// Pagination applies only when both Page and Size are set.
type TurismoListParams struct {
	Page *int
	Size *int
}

// Paginated reports whether both page and size were given
func (p *TurismoListParams) Paginated() bool {
	return p != nil && p.Page != nil && p.Size != nil
}

// GroupedIndex maps a community name to its pre-grouped records
type GroupedIndex map[string][]Turismo
