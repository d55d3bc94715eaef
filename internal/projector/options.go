package projector

import "strings"

// Formats a generation can produce.
const (
	FormatPDF   = "pdf"
	FormatHTML  = "html"
	FormatImage = "image"
)

// GenerationOptions is the full options payload for one generation. It is
// frozen into the job record at submission time.
type GenerationOptions struct {
	Sections      SectionToggles     `json:"sections"`
	Tailoring     *TailoringTarget   `json:"tailoring,omitempty"`
	EmphasisTerms []string           `json:"emphasisTerms,omitempty"`
	Blind         bool               `json:"blind,omitempty"`
	Language      string             `json:"language,omitempty"`
	Accessibility Accessibility      `json:"accessibility,omitempty"`
	Style         StyleCustomization `json:"style,omitempty"`
	Portfolio     PortfolioSelection `json:"portfolio,omitempty"`
	Label         string             `json:"label,omitempty"`

	Format         string `json:"format,omitempty"`
	Compress       bool   `json:"compress,omitempty"`
	MaxOutputBytes int64  `json:"maxOutputBytes,omitempty"`
}

// SectionToggles selects which profile sections enter the render context.
type SectionToggles struct {
	Summary        bool `json:"summary"`
	Experience     bool `json:"experience"`
	Education      bool `json:"education"`
	Skills         bool `json:"skills"`
	Certifications bool `json:"certifications"`
	Projects       bool `json:"projects"`
	Publications   bool `json:"publications"`
	Languages      bool `json:"languages"`
	CustomSections bool `json:"customSections"`
	Portfolio      bool `json:"portfolio"`
}

// AllSections enables every section toggle.
func AllSections() SectionToggles {
	return SectionToggles{
		Summary:        true,
		Experience:     true,
		Education:      true,
		Skills:         true,
		Certifications: true,
		Projects:       true,
		Publications:   true,
		Languages:      true,
		CustomSections: true,
		Portfolio:      true,
	}
}

// TailoringTarget describes the job a CV is being tailored toward.
type TailoringTarget struct {
	JobTitle    string   `json:"jobTitle,omitempty"`
	Company     string   `json:"company,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Accessibility directives for rendered output.
type Accessibility struct {
	HighContrast bool `json:"highContrast,omitempty"`
	LargeText    bool `json:"largeText,omitempty"`
	ScreenReader bool `json:"screenReader,omitempty"`
}

// StyleCustomization covers the customizable style axes.
type StyleCustomization struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty"`
	FontSize     int    `json:"fontSize,omitempty"`
	Spacing      int    `json:"spacing,omitempty"`
	Margins      int    `json:"margins,omitempty"`
}

// PortfolioSelection picks portfolio items either as "first N" or as an
// explicit id allow-list. An explicit list wins when both are set.
type PortfolioSelection struct {
	FirstN int      `json:"firstN,omitempty"`
	IDs    []string `json:"ids,omitempty"`
}

// NormalizedFormat returns the canonical output format, defaulting to pdf.
func (o GenerationOptions) NormalizedFormat() string {
	switch strings.ToLower(strings.TrimSpace(o.Format)) {
	case FormatHTML:
		return FormatHTML
	case FormatImage, "png":
		return FormatImage
	default:
		return FormatPDF
	}
}

// ValidFormat reports whether the requested format is one we can produce.
func (o GenerationOptions) ValidFormat() bool {
	switch strings.ToLower(strings.TrimSpace(o.Format)) {
	case "", FormatPDF, FormatHTML, FormatImage, "png":
		return true
	default:
		return false
	}
}
