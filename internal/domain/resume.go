package domain

// NotSpecified is the experience value used when no experience phrase is found.
const NotSpecified = "Not specified"

// Skill category names. The order is the order categories are rendered in.
const (
	SkillCategoryTechnical = "Technical"
	SkillCategoryTools     = "Tools"
	SkillCategorySoft      = "Soft Skills"
)

// PersonalInfo holds the contact details found in a resume.
type PersonalInfo struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
}

// SocialLinks holds profile URL fragments such as "github.com/jdoe".
type SocialLinks struct {
	GitHub   []string `json:"github"`
	LinkedIn []string `json:"linkedin"`
}

// SkillSet maps every fixed category to the taxonomy terms found in the text.
// All three categories are always serialised.
type SkillSet struct {
	Technical []string `json:"Technical"`
	Tools     []string `json:"Tools"`
	Soft      []string `json:"Soft Skills"`
}

// ExtractionResult is the structured record produced from one resume.
type ExtractionResult struct {
	PersonalInfo   PersonalInfo `json:"personal_info"`
	SocialLinks    SocialLinks  `json:"social_links"`
	Education      *string      `json:"education"`
	Experience     string       `json:"experience"`
	Skills         SkillSet     `json:"skills"`
	ExtractionDate string       `json:"extraction_date"`
	SessionID      string       `json:"session_id,omitempty"`
}
