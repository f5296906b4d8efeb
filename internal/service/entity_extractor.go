package service

import (
	"time"

	"resume-parser/internal/domain"
)

// ExtractionDateLayout is the layout of ExtractionResult.ExtractionDate.
const ExtractionDateLayout = "2006-01-02 15:04:05"

// EntityExtractor turns resume text into an ExtractionResult using the pattern rules.
type EntityExtractor struct {
	now func() time.Time
}

// NewEntityExtractor creates an extractor stamping results with the local wall clock.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{now: time.Now}
}

// NewEntityExtractorWithClock is used where the extraction date must be fixed.
func NewEntityExtractorWithClock(now func() time.Time) *EntityExtractor {
	return &EntityExtractor{now: now}
}

// Extract applies every rule to text. It never fails; fields with no match are
// left empty, null or "Not specified".
func (e *EntityExtractor) Extract(text string) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		PersonalInfo: domain.PersonalInfo{
			Emails: extractEmails(text),
			Phones: extractPhones(text),
		},
		SocialLinks: domain.SocialLinks{
			GitHub:   extractGitHub(text),
			LinkedIn: extractLinkedIn(text),
		},
		Education:      extractEducation(text),
		Experience:     extractExperience(text),
		Skills:         extractSkills(text),
		ExtractionDate: e.now().Format(ExtractionDateLayout),
	}
}
