// Package render lays out a tailored resume as an A4 PDF.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
)

// Header is the contact block at the top of the page
type Header struct {
	Name     string
	Headline string
	Email    string
	Phone    string
	Location string
	Website  string
	LinkedIn string
	Summary  string
}

// Document is everything that goes onto the rendered resume.
// Sections are the parsed sections in position order.
type Document struct {
	Title          string
	Header         Header
	Sections       []*domain.ResumeSection
	Experiences    []*domain.Experience
	Education      []*domain.Education
	Skills         []*domain.Skill
	Projects       []*domain.Project
	Certifications []*domain.Certification
}

// Order is the fixed order sections appear in
var Order = []domain.SectionType{
	domain.SectionSummary,
	domain.SectionExperience,
	domain.SectionEducation,
	domain.SectionSkills,
	domain.SectionProjects,
	domain.SectionCertifications,
}

var headings = map[domain.SectionType]string{
	domain.SectionSummary:        "Summary",
	domain.SectionExperience:     "Experience",
	domain.SectionEducation:      "Education",
	domain.SectionSkills:         "Skills",
	domain.SectionProjects:       "Projects",
	domain.SectionCertifications: "Certifications",
}

const (
	fontFamily = "Helvetica"
	margin     = 18.0
	lineHeight = 5.0
)

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// PDF renders doc. A section prints its structured entries when it has any,
// otherwise the parsed text of that type.
func PDF(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreator("ResumeKit", false)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}

	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()

	w.header(doc.Header)
	for _, t := range Order {
		blocks := doc.blocks(t)
		if len(blocks) == 0 {
			continue
		}
		w.heading(headings[t])
		for _, b := range blocks {
			w.block(b)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// block is one entry: a bold title line, an optional muted subtitle and a body
type block struct {
	title    string
	subtitle string
	body     string
}

func (d *Document) blocks(t domain.SectionType) []block {
	var out []block
	switch t {
	case domain.SectionSummary:
		if s := strings.TrimSpace(d.Header.Summary); s != "" {
			return []block{{body: s}}
		}
	case domain.SectionExperience:
		for _, e := range d.Experiences {
			out = append(out, block{
				title:    join(" - ", e.Title, e.Company),
				subtitle: join(" | ", e.Location, dateRange(e.StartDate, e.EndDate, e.IsCurrent)),
				body:     e.Description,
			})
		}
	case domain.SectionEducation:
		for _, e := range d.Education {
			out = append(out, block{
				title:    join(", ", e.Degree, e.FieldOfStudy),
				subtitle: join(" | ", e.Institution, dateRange(e.StartDate, e.EndDate, false)),
				body:     e.Description,
			})
		}
	case domain.SectionSkills:
		if len(d.Skills) > 0 {
			out = append(out, block{body: skillLines(d.Skills)})
		}
	case domain.SectionProjects:
		for _, p := range d.Projects {
			out = append(out, block{
				title:    join(" - ", p.Name, p.Role),
				subtitle: join(" | ", p.URL, dateRange(p.StartDate, p.EndDate, false)),
				body:     p.Description,
			})
		}
	case domain.SectionCertifications:
		for _, c := range d.Certifications {
			out = append(out, block{
				title:    c.Name,
				subtitle: join(" | ", c.Issuer, dateRange(c.IssueDate, c.ExpiryDate, false), c.CredentialURL),
			})
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, s := range d.Sections {
		if s.Type == t && strings.TrimSpace(s.Content) != "" {
			out = append(out, block{body: strings.TrimSpace(s.Content)})
		}
	}
	return out
}

// skillLines groups skills by category, keeping first-seen category order
func skillLines(skills []*domain.Skill) string {
	var order []string
	grouped := make(map[string][]string)
	for _, s := range skills {
		name := s.Name
		if s.Level != "" {
			name += " (" + s.Level + ")"
		}
		if _, ok := grouped[s.Category]; !ok {
			order = append(order, s.Category)
		}
		grouped[s.Category] = append(grouped[s.Category], name)
	}

	lines := make([]string, 0, len(order))
	for _, cat := range order {
		line := strings.Join(grouped[cat], ", ")
		if cat != "" {
			line = cat + ": " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (w *writer) header(h Header) {
	if h.Name != "" {
		w.pdf.SetFont(fontFamily, "B", 20)
		w.pdf.CellFormat(0, 10, w.tr(h.Name), "", 1, "L", false, 0, "")
	}
	if h.Headline != "" {
		w.pdf.SetFont(fontFamily, "", 12)
		w.pdf.CellFormat(0, 6, w.tr(h.Headline), "", 1, "L", false, 0, "")
	}
	if contact := join("  |  ", h.Email, h.Phone, h.Location, h.Website, h.LinkedIn); contact != "" {
		w.pdf.SetFont(fontFamily, "", 9)
		w.pdf.SetTextColor(90, 90, 90)
		w.pdf.MultiCell(0, lineHeight, w.tr(contact), "", "L", false)
		w.pdf.SetTextColor(0, 0, 0)
	}
	w.pdf.Ln(2)
}

func (w *writer) heading(title string) {
	w.pdf.Ln(3)
	w.pdf.SetFont(fontFamily, "B", 13)
	w.pdf.CellFormat(0, 7, w.tr(title), "", 1, "L", false, 0, "")

	pageWidth, _ := w.pdf.GetPageSize()
	y := w.pdf.GetY()
	w.pdf.SetDrawColor(160, 160, 160)
	w.pdf.Line(margin, y, pageWidth-margin, y)
	w.pdf.Ln(2)
}

func (w *writer) block(b block) {
	if b.title != "" {
		w.pdf.SetFont(fontFamily, "B", 10.5)
		w.pdf.MultiCell(0, lineHeight+0.5, w.tr(b.title), "", "L", false)
	}
	if b.subtitle != "" {
		w.pdf.SetFont(fontFamily, "I", 9)
		w.pdf.SetTextColor(90, 90, 90)
		w.pdf.MultiCell(0, lineHeight, w.tr(b.subtitle), "", "L", false)
		w.pdf.SetTextColor(0, 0, 0)
	}
	if body := strings.TrimSpace(b.body); body != "" {
		w.pdf.SetFont(fontFamily, "", 10)
		w.pdf.MultiCell(0, lineHeight, w.tr(body), "", "L", false)
	}
	w.pdf.Ln(1.5)
}

func join(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func dateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	return join(" - ", start, end)
}
