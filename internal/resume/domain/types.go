package domain

import "time"

// SectionType labels a span of resume text
type SectionType string

const (
	SectionEducation      SectionType = "education"
	SectionExperience     SectionType = "experience"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionSummary        SectionType = "summary"
	SectionCertifications SectionType = "certifications"
)

// Valid reports whether t is one of the known labels
func (t SectionType) Valid() bool {
	switch t {
	case SectionEducation, SectionExperience, SectionSkills, SectionProjects, SectionSummary, SectionCertifications:
		return true
	}
	return false
}

// Section is one labeled span of a parsed resume
type Section struct {
	Type      SectionType `json:"type"`
	Content   string      `json:"content"`
	SortIndex int         `json:"sort_index"`
}

// ParsedDocument is the parser output for one uploaded file
type ParsedDocument struct {
	RawText  string    `json:"raw_text"`
	Sections []Section `json:"sections"`
}

// Tailoring is one uploaded resume paired with the job it is tailored for
type Tailoring struct {
	ID             string    `json:"id" db:"id"`
	AccountID      string    `json:"account_id" db:"account_id"`
	Title          string    `json:"title" db:"title"`
	JobDescription string    `json:"job_description" db:"job_description"`
	FileName       string    `json:"file_name" db:"file_name"`
	ObjectKey      string    `json:"-" db:"object_key"`
	ContentType    string    `json:"content_type" db:"content_type"`
	Parser         string    `json:"parser" db:"parser"`
	RawText        string    `json:"raw_text,omitempty" db:"raw_text"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TailoringSummary is the dashboard row for a tailoring
type TailoringSummary struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	FileName     string    `json:"file_name" db:"file_name"`
	SectionCount int       `json:"section_count" db:"section_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ResumeSection is a persisted Section.
// Position is the emission order and the ordering key; SortIndex keeps the parser's value.
type ResumeSection struct {
	ID          string      `json:"id" db:"id"`
	TailoringID string      `json:"tailoring_id" db:"tailoring_id"`
	Type        SectionType `json:"type" db:"section_type"`
	Content     string      `json:"content" db:"content"`
	SortIndex   int         `json:"sort_index" db:"sort_index"`
	Position    int         `json:"position" db:"position"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// TailoringDetail is a tailoring with its parsed sections
type TailoringDetail struct {
	*Tailoring
	Sections []*ResumeSection `json:"sections"`
}

// UploadRequest carries one resume upload through processing
type UploadRequest struct {
	Title          string
	JobDescription string
	FileName       string
	ContentType    string
	Data           []byte
	// Parser names the registry entry to use; empty selects the configured default
	Parser string
}

// UpdateSectionRequest edits the text of one parsed section
type UpdateSectionRequest struct {
	Content string `json:"content" validate:"max=20000"`
}
