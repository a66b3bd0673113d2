package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumekit/resumekit-backend/internal/resume/domain"
)

func sampleDocument() *Document {
	exp := &domain.Experience{Company: "Acme", Title: "Engineer", StartDate: "2020", IsCurrent: true, Description: "Built the billing pipeline"}
	return &Document{
		Title: "Backend role",
		Header: Header{
			Name:     "Zoë Müller",
			Headline: "Platform Engineer",
			Email:    "zoe@example.com",
			Location: "Berlin",
		},
		Sections: []*domain.ResumeSection{
			{Type: domain.SectionSummary, Content: "Ten years of backend work", Position: 0},
			{Type: domain.SectionExperience, Content: "Parsed experience text", Position: 1},
			{Type: domain.SectionEducation, Content: "TU Berlin, Computer Science", Position: 2},
		},
		Experiences: []*domain.Experience{exp},
		Skills: []*domain.Skill{
			{Name: "Go", Category: "Languages", Level: "expert"},
			{Name: "SQL", Category: "Languages"},
			{Name: "Kubernetes"},
		},
	}
}

func TestPDF(t *testing.T) {
	out, err := PDF(sampleDocument())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestPDF_EmptyDocument(t *testing.T) {
	out, err := PDF(&Document{})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestBlocks_EntriesWinOverParsedText(t *testing.T) {
	doc := sampleDocument()

	blocks := doc.blocks(domain.SectionExperience)

	require.Len(t, blocks, 1)
	assert.Equal(t, "Engineer - Acme", blocks[0].title)
	assert.Equal(t, "2020 - Present", blocks[0].subtitle)
	assert.Equal(t, "Built the billing pipeline", blocks[0].body)
}

func TestBlocks_FallBackToParsedText(t *testing.T) {
	doc := sampleDocument()

	blocks := doc.blocks(domain.SectionEducation)

	require.Len(t, blocks, 1)
	assert.Equal(t, "TU Berlin, Computer Science", blocks[0].body)
	assert.Empty(t, doc.blocks(domain.SectionProjects))
}

func TestBlocks_ProfileSummaryWins(t *testing.T) {
	doc := sampleDocument()
	assert.Equal(t, "Ten years of backend work", doc.blocks(domain.SectionSummary)[0].body)

	doc.Header.Summary = "Written on the profile"
	assert.Equal(t, "Written on the profile", doc.blocks(domain.SectionSummary)[0].body)
}

func TestSkillLines(t *testing.T) {
	got := skillLines(sampleDocument().Skills)

	assert.Equal(t, "Languages: Go (expert), SQL\nKubernetes", got)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a | c", join(" | ", "a", " ", "c"))
	assert.Equal(t, "", join(", "))
}
