package profiles

import "time"

// Profile is a read-only snapshot of a candidate profile as maintained by the
// profile-management subsystem. Generation never mutates it.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UpdatedAt time.Time `json:"updatedAt"`

	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photoUrl"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Location string `json:"location"`

	Links          []Link          `json:"links,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []Skill         `json:"skills,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Publications   []Publication   `json:"publications,omitempty"`
	Languages      []Language      `json:"languages,omitempty"`
	CustomSections []CustomSection `json:"customSections,omitempty"`
	Portfolio      []PortfolioItem `json:"portfolio,omitempty"`
}

// Link is an external profile link. Identifying links (personal sites,
// social handles) are stripped in blind mode.
type Link struct {
	Label       string `json:"label"`
	URL         string `json:"url"`
	Identifying bool   `json:"identifying,omitempty"`
}

// Experience is one work-history entry.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"` // YYYY-MM
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// Skill is a single skill with an optional proficiency level.
type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Certification is a professional certification.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Project is a personal or professional project.
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Publication is a paper, article, or talk.
type Publication struct {
	Title string `json:"title"`
	Venue string `json:"venue,omitempty"`
	Year  int    `json:"year,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Language is a spoken language with proficiency.
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// CustomSection is a free-form profile section.
type CustomSection struct {
	Title string   `json:"title"`
	Items []string `json:"items,omitempty"`
}

// PortfolioItem is a portfolio entry selectable by id.
type PortfolioItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}
