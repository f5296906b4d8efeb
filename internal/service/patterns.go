package service

import (
	"regexp"

	"resume-parser/internal/domain"
)

// Character classes are Unicode-aware: \w is [\p{L}\p{N}_], \s also takes
// Unicode separators (NBSP is common in extracted PDF text), \d is \p{Nd}.
const (
	wordClass  = `\p{L}\p{N}_`
	spaceClass = `\s\v\p{Z}`
	digit      = `\p{Nd}`
)

var (
	emailPattern    = regexp.MustCompile(`[` + wordClass + `\.-]+@[` + wordClass + `\.-]+`)
	phonePattern    = regexp.MustCompile(`(\+?` + digit + `{1,3}[-\.` + spaceClass + `]?)?\(?` + digit + `{3}\)?[-\.` + spaceClass + `]?` + digit + `{3}[-\.` + spaceClass + `]?` + digit + `{4}`)
	githubPattern   = regexp.MustCompile(`github\.com/[a-zA-Z0-9-]+`)
	linkedinPattern = regexp.MustCompile(`linkedin\.com/in/[a-zA-Z0-9-]+`)

	educationHeadingPattern = regexp.MustCompile(`(?i)(Education|Academic Background)`)
	educationEndPattern     = regexp.MustCompile(`(?i)(Experience|Skills)`)

	experiencePattern = regexp.MustCompile(`(?i)(` + digit + `+)[` + spaceClass + `]*(years?|yrs?)[` + spaceClass + `]*(experience|of experience)`)
)

// skillCategory is one fixed group of the skills taxonomy.
type skillCategory struct {
	name  string
	terms []skillTerm
}

type skillTerm struct {
	name    string
	pattern *regexp.Regexp
}

var skillTaxonomy = []skillCategory{
	newSkillCategory(domain.SkillCategoryTechnical, "Python", "SQL", "Machine Learning", "Pandas", "Numpy"),
	newSkillCategory(domain.SkillCategoryTools, "Excel", "Power BI", "Tableau", "Jupyter"),
	newSkillCategory(domain.SkillCategorySoft, "Communication", "Teamwork", "Leadership"),
}

func newSkillCategory(name string, terms ...string) skillCategory {
	c := skillCategory{name: name, terms: make([]skillTerm, 0, len(terms))}
	for _, t := range terms {
		c.terms = append(c.terms, skillTerm{
			name:    t,
			pattern: regexp.MustCompile(`(?i)(?:^|[^` + wordClass + `])` + regexp.QuoteMeta(t) + `(?:[^` + wordClass + `]|$)`),
		})
	}
	return c
}

// findUnique returns every match of re in text once, in order of first occurrence.
func findUnique(re *regexp.Regexp, text string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(text, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func extractEmails(text string) []string   { return findUnique(emailPattern, text) }
func extractPhones(text string) []string   { return findUnique(phonePattern, text) }
func extractGitHub(text string) []string   { return findUnique(githubPattern, text) }
func extractLinkedIn(text string) []string { return findUnique(linkedinPattern, text) }

// extractEducation returns the text from the first education heading up to the
// next "Experience" or "Skills" keyword, or to the end of text.
func extractEducation(text string) *string {
	loc := educationHeadingPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	end := len(text)
	if next := educationEndPattern.FindStringIndex(text[loc[1]:]); next != nil {
		end = loc[1] + next[0]
	}
	section := text[loc[0]:end]
	return &section
}

func extractExperience(text string) string {
	m := experiencePattern.FindStringSubmatch(text)
	if m == nil {
		return domain.NotSpecified
	}
	return m[1] + " years"
}

func extractSkills(text string) domain.SkillSet {
	skills := domain.SkillSet{
		Technical: []string{},
		Tools:     []string{},
		Soft:      []string{},
	}
	for _, category := range skillTaxonomy {
		found := []string{}
		for _, term := range category.terms {
			if term.pattern.MatchString(text) {
				found = append(found, term.name)
			}
		}
		switch category.name {
		case domain.SkillCategoryTechnical:
			skills.Technical = found
		case domain.SkillCategoryTools:
			skills.Tools = found
		case domain.SkillCategorySoft:
			skills.Soft = found
		}
	}
	return skills
}
