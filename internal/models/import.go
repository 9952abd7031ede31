package models

// ParsedMaterial is the working record produced per import row. It exists
// only for the duration of the review step and is discarded after commit.
type ParsedMaterial struct {
	RowNumber int      `json:"row_number"` // 1-based data row number
	Raw       []string `json:"raw"`        // original cells, kept for audit
	Material  Material `json:"material"`
	Warnings  []string `json:"warnings,omitempty"`
	IsValid   bool     `json:"is_valid"`
	Selected  bool     `json:"selected"`
}

// ImportParseResponse is returned after parsing an uploaded sheet
type ImportParseResponse struct {
	Rows         []ParsedMaterial `json:"rows"`
	TotalRows    int              `json:"total_rows"`
	ValidRows    int              `json:"valid_rows"`
	WarningCount int              `json:"warning_count"`
	ArchiveKey   string           `json:"archive_key,omitempty"`
}

// ImportCommitRequest carries the reviewer's accepted rows back to the
// server. Rows holds the full review set; Selected lists the indices into
// Rows that the reviewer accepted.
type ImportCommitRequest struct {
	Rows     []ParsedMaterial `json:"rows"`
	Selected []int            `json:"selected"`
	// BoxID, when set, auto-assigns the committed materials to the next
	// free positions of that box.
	BoxID *int `json:"box_id,omitempty"`
}

// ImportCommitResponse reports the commit outcome
type ImportCommitResponse struct {
	Created   []Material `json:"created"`
	Assigned  []string   `json:"assigned_positions,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
	Committed int        `json:"committed"`
}

// TemplateColumn is one column of the reference import template
type TemplateColumn struct {
	Header  string `json:"header"`
	Example string `json:"example"`
}
