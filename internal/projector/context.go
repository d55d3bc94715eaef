package projector

// RenderContext is the filtered, transformed projection of one profile fed to
// the template renderer for a single generation. It is never persisted and is
// owned exclusively by the render invocation that built it.
//
// Sections the caller did not request are absent entirely (nil slices, empty
// strings), so a template cannot accidentally render unselected data.
type RenderContext struct {
	Language string `json:"language"`

	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Headline string `json:"headline,omitempty"`
	Location string `json:"location,omitempty"`

	Summary        string           `json:"summary,omitempty"`
	Links          []LinkView       `json:"links,omitempty"`
	Experience     []ExperienceView `json:"experience,omitempty"`
	Education      []EducationView  `json:"education,omitempty"`
	Skills         []SkillView      `json:"skills,omitempty"`
	Certifications []CertView       `json:"certifications,omitempty"`
	Projects       []ProjectView    `json:"projects,omitempty"`
	Publications   []PubView        `json:"publications,omitempty"`
	Languages      []LanguageView   `json:"languages,omitempty"`
	CustomSections []CustomView     `json:"customSections,omitempty"`
	Portfolio      []PortfolioView  `json:"portfolio,omitempty"`

	Labels        map[string]string `json:"labels"`
	Style         StyleView         `json:"style"`
	Accessibility Accessibility     `json:"accessibility"`
}

// LinkView is a projected profile link.
type LinkView struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ExperienceView is a projected work-history entry.
type ExperienceView struct {
	Title        string            `json:"title"`
	Company      string            `json:"company"`
	Location     string            `json:"location,omitempty"`
	Period       string            `json:"period"`
	Achievements []HighlightedText `json:"achievements,omitempty"`
}

// HighlightedText is a line of content with an optional emphasis mark set by
// tailoring when the line matches the target keywords.
type HighlightedText struct {
	Text     string `json:"text"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// EducationView is a projected education entry.
type EducationView struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution"`
	Period      string `json:"period,omitempty"`
}

// SkillView is a projected skill.
type SkillView struct {
	Name     string `json:"name"`
	Level    string `json:"level,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// CertView is a projected certification.
type CertView struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// ProjectView is a projected project entry.
type ProjectView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// PubView is a projected publication entry.
type PubView struct {
	Title string `json:"title"`
	Venue string `json:"venue,omitempty"`
	Year  int    `json:"year,omitempty"`
}

// LanguageView is a projected spoken language.
type LanguageView struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// CustomView is a projected custom section.
type CustomView struct {
	Title string   `json:"title"`
	Items []string `json:"items,omitempty"`
}

// PortfolioView is a projected portfolio item.
type PortfolioView struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// StyleView is the resolved style customization with defaults applied.
type StyleView struct {
	PrimaryColor string `json:"primaryColor"`
	FontFamily   string `json:"fontFamily"`
	FontSize     int    `json:"fontSize"`
	Spacing      int    `json:"spacing"`
	Margins      int    `json:"margins"`
}
