package parser

import (
	"strings"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
)

// BasicName is the registry identifier of the keyword parser
const BasicName = "basic"

type headerKeyword struct {
	label   domain.SectionType
	keyword string
}

// headerKeywords is checked in order; the first keyword contained in a line wins.
var headerKeywords = []headerKeyword{
	{domain.SectionEducation, "education"},
	{domain.SectionExperience, "experience"},
	{domain.SectionSkills, "skills"},
	{domain.SectionProjects, "projects"},
	{domain.SectionSummary, "summary"},
	{domain.SectionCertifications, "certifications"},
}

// Basic splits text into sections at lines that mention a section keyword.
// Lines before the first header belong to the summary.
type Basic struct{}

func NewBasic() *Basic {
	return &Basic{}
}

func (p *Basic) Name() string {
	return BasicName
}

func (p *Basic) Parse(text string) *domain.ParsedDocument {
	return &domain.ParsedDocument{
		RawText:  text,
		Sections: extractSections(text),
	}
}

// matchHeader returns the label whose keyword the line contains, if any
func matchHeader(line string) (domain.SectionType, bool) {
	lower := strings.ToLower(line)
	for _, hk := range headerKeywords {
		if strings.Contains(lower, hk.keyword) {
			return hk.label, true
		}
	}
	return "", false
}

func extractSections(text string) []domain.Section {
	sections := []domain.Section{}
	current := domain.SectionSummary
	index := 0
	var buf strings.Builder

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		label, isHeader := matchHeader(line)
		if !isHeader {
			buf.WriteString(line)
			buf.WriteByte('\n')
			continue
		}

		if content := strings.TrimSpace(buf.String()); content != "" {
			if len(sections) > 0 {
				index++
			}
			sections = append(sections, domain.Section{Type: current, Content: content, SortIndex: index})
		}
		buf.Reset()
		current = label
	}

	// The trailing section reuses the last index instead of taking the next one,
	// so it can share a sort index with the section before it. Callers that need
	// a strict order use the slice position.
	if content := strings.TrimSpace(buf.String()); content != "" {
		sections = append(sections, domain.Section{Type: current, Content: content, SortIndex: index})
	}

	return sections
}
