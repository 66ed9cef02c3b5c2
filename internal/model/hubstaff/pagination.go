package hubstaff

// Pagination is the cursor block of every Hubstaff v2 list response.
// A missing next_page_start_id marks the last page.
type Pagination struct {
	NextPageStartID *int64 `json:"next_page_start_id"`
}

// Next returns the cursor of the following page, or nil on the last page.
func (p *Pagination) Next() *int64 {
	if p == nil {
		return nil
	}
	return p.NextPageStartID
}
