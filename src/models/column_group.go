package models

import "encoding/json"

// MColumnGroup is a titled, ordered bucket of token records.
// The count is always derived from Records.
type MColumnGroup struct {
	Title   string         `json:"title"`
	Records []MTokenRecord `json:"records"`
}

func (c MColumnGroup) Count() int {
	return len(c.Records)
}

func (c MColumnGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title   string         `json:"title"`
		Count   int            `json:"count"`
		Records []MTokenRecord `json:"records"`
	}{
		Title:   c.Title,
		Count:   c.Count(),
		Records: c.Records,
	})
}

// Clone deep-copies the column.
func (c MColumnGroup) Clone() MColumnGroup {
	records := make([]MTokenRecord, len(c.Records))
	for i, r := range c.Records {
		records[i] = r.Clone()
	}
	return MColumnGroup{Title: c.Title, Records: records}
}

// CloneColumns deep-copies a column set.
func CloneColumns(cols []MColumnGroup) []MColumnGroup {
	out := make([]MColumnGroup, len(cols))
	for i, c := range cols {
		out[i] = c.Clone()
	}
	return out
}
