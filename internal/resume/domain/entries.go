package domain

import "time"

// EntryKind names one of the structured per-section tables
type EntryKind string

const (
	KindExperiences    EntryKind = "experiences"
	KindEducation      EntryKind = "education"
	KindCertifications EntryKind = "certifications"
	KindProjects       EntryKind = "projects"
	KindSkills         EntryKind = "skills"
)

// EntryBase holds the columns every entry table shares
type EntryBase struct {
	ID          string    `json:"id" db:"id"`
	TailoringID string    `json:"tailoring_id" db:"tailoring_id"`
	SortIndex   int       `json:"sort_index" db:"sort_index"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Base gives generic code access to the shared columns
func (e *EntryBase) Base() *EntryBase { return e }

type Experience struct {
	EntryBase
	Company     string `json:"company" db:"company"`
	Title       string `json:"title" db:"title"`
	Location    string `json:"location" db:"location"`
	StartDate   string `json:"start_date" db:"start_date"`
	EndDate     string `json:"end_date" db:"end_date"`
	IsCurrent   bool   `json:"is_current" db:"is_current"`
	Description string `json:"description" db:"description"`
}

type Education struct {
	EntryBase
	Institution  string `json:"institution" db:"institution"`
	Degree       string `json:"degree" db:"degree"`
	FieldOfStudy string `json:"field_of_study" db:"field_of_study"`
	StartDate    string `json:"start_date" db:"start_date"`
	EndDate      string `json:"end_date" db:"end_date"`
	Description  string `json:"description" db:"description"`
}

type Certification struct {
	EntryBase
	Name          string `json:"name" db:"name"`
	Issuer        string `json:"issuer" db:"issuer"`
	IssueDate     string `json:"issue_date" db:"issue_date"`
	ExpiryDate    string `json:"expiry_date" db:"expiry_date"`
	CredentialURL string `json:"credential_url" db:"credential_url"`
}

type Project struct {
	EntryBase
	Name        string `json:"name" db:"name"`
	Role        string `json:"role" db:"role"`
	URL         string `json:"url" db:"url"`
	StartDate   string `json:"start_date" db:"start_date"`
	EndDate     string `json:"end_date" db:"end_date"`
	Description string `json:"description" db:"description"`
}

type Skill struct {
	EntryBase
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
	Level    string `json:"level" db:"level"`
}

// Entry input payloads. Apply copies the fields onto the stored record.

type ExperienceInput struct {
	SortIndex   int    `json:"sort_index" validate:"min=0"`
	Company     string `json:"company" validate:"required,max=255"`
	Title       string `json:"title" validate:"required,max=255"`
	Location    string `json:"location" validate:"max=255"`
	StartDate   string `json:"start_date" validate:"max=32"`
	EndDate     string `json:"end_date" validate:"max=32"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description" validate:"max=10000"`
}

func (in *ExperienceInput) Apply(e *Experience) {
	e.SortIndex = in.SortIndex
	e.Company = in.Company
	e.Title = in.Title
	e.Location = in.Location
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.IsCurrent = in.IsCurrent
	e.Description = in.Description
	if e.IsCurrent {
		e.EndDate = ""
	}
}

type EducationInput struct {
	SortIndex    int    `json:"sort_index" validate:"min=0"`
	Institution  string `json:"institution" validate:"required,max=255"`
	Degree       string `json:"degree" validate:"max=255"`
	FieldOfStudy string `json:"field_of_study" validate:"max=255"`
	StartDate    string `json:"start_date" validate:"max=32"`
	EndDate      string `json:"end_date" validate:"max=32"`
	Description  string `json:"description" validate:"max=10000"`
}

func (in *EducationInput) Apply(e *Education) {
	e.SortIndex = in.SortIndex
	e.Institution = in.Institution
	e.Degree = in.Degree
	e.FieldOfStudy = in.FieldOfStudy
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.Description = in.Description
}

type CertificationInput struct {
	SortIndex     int    `json:"sort_index" validate:"min=0"`
	Name          string `json:"name" validate:"required,max=255"`
	Issuer        string `json:"issuer" validate:"max=255"`
	IssueDate     string `json:"issue_date" validate:"max=32"`
	ExpiryDate    string `json:"expiry_date" validate:"max=32"`
	CredentialURL string `json:"credential_url" validate:"omitempty,url,max=512"`
}

func (in *CertificationInput) Apply(c *Certification) {
	c.SortIndex = in.SortIndex
	c.Name = in.Name
	c.Issuer = in.Issuer
	c.IssueDate = in.IssueDate
	c.ExpiryDate = in.ExpiryDate
	c.CredentialURL = in.CredentialURL
}

type ProjectInput struct {
	SortIndex   int    `json:"sort_index" validate:"min=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Role        string `json:"role" validate:"max=255"`
	URL         string `json:"url" validate:"omitempty,url,max=512"`
	StartDate   string `json:"start_date" validate:"max=32"`
	EndDate     string `json:"end_date" validate:"max=32"`
	Description string `json:"description" validate:"max=10000"`
}

func (in *ProjectInput) Apply(p *Project) {
	p.SortIndex = in.SortIndex
	p.Name = in.Name
	p.Role = in.Role
	p.URL = in.URL
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.Description = in.Description
}

type SkillInput struct {
	SortIndex int    `json:"sort_index" validate:"min=0"`
	Name      string `json:"name" validate:"required,max=255"`
	Category  string `json:"category" validate:"max=255"`
	Level     string `json:"level" validate:"max=64"`
}

func (in *SkillInput) Apply(s *Skill) {
	s.SortIndex = in.SortIndex
	s.Name = in.Name
	s.Category = in.Category
	s.Level = in.Level
}
