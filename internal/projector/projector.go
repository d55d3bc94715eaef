package projector

import (
	"strings"

	"cvgen-backend/internal/profiles"
)

// Default style values applied when the caller customizes nothing.
const (
	defaultPrimaryColor = "#2c3e50"
	defaultFontFamily   = "Georgia, 'Times New Roman', serif"
	defaultFontSize     = 11
	defaultSpacing      = 12
	defaultMargins      = 18
)

// Project builds the RenderContext for one generation: section selection,
// blind mode, tailoring, localization, accessibility, and style resolution.
// It is a pure function of its inputs and never fails on missing optional
// profile fields; absent data projects to absent output.
func Project(profile profiles.Profile, opts GenerationOptions) RenderContext {
	language := NormalizeLanguage(opts.Language)

	out := RenderContext{
		Language:      language,
		Labels:        Labels(language),
		Style:         resolveStyle(opts.Style),
		Accessibility: opts.Accessibility,
	}

	if !opts.Blind {
		out.Name = profile.FullName
		out.Email = profile.Email
		out.Phone = profile.Phone
		out.PhotoURL = profile.PhotoURL
		out.Location = profile.Location
		out.Links = projectLinks(profile.Links, false)
	} else {
		out.Links = projectLinks(profile.Links, true)
	}
	out.Headline = profile.Headline

	if opts.Sections.Summary {
		out.Summary = profile.Summary
	}
	if opts.Sections.Experience {
		out.Experience = projectExperience(profile.Experience, language)
	}
	if opts.Sections.Education {
		out.Education = projectEducation(profile.Education, language)
	}
	if opts.Sections.Skills {
		out.Skills = projectSkills(profile.Skills)
	}
	if opts.Sections.Certifications {
		for _, cert := range profile.Certifications {
			out.Certifications = append(out.Certifications, CertView{Name: cert.Name, Issuer: cert.Issuer, Year: cert.Year})
		}
	}
	if opts.Sections.Projects {
		for _, proj := range profile.Projects {
			out.Projects = append(out.Projects, ProjectView{Name: proj.Name, Description: proj.Description, URL: proj.URL})
		}
	}
	if opts.Sections.Publications {
		for _, pub := range profile.Publications {
			out.Publications = append(out.Publications, PubView{Title: pub.Title, Venue: pub.Venue, Year: pub.Year})
		}
	}
	if opts.Sections.Languages {
		for _, lang := range profile.Languages {
			out.Languages = append(out.Languages, LanguageView{Name: lang.Name, Proficiency: lang.Proficiency})
		}
	}
	if opts.Sections.CustomSections {
		for _, section := range profile.CustomSections {
			items := make([]string, len(section.Items))
			copy(items, section.Items)
			out.CustomSections = append(out.CustomSections, CustomView{Title: section.Title, Items: items})
		}
	}
	if opts.Sections.Portfolio {
		out.Portfolio = selectPortfolio(profile.Portfolio, opts.Portfolio)
	}

	applyTailoring(&out, opts)

	return out
}

func resolveStyle(style StyleCustomization) StyleView {
	resolved := StyleView{
		PrimaryColor: strings.TrimSpace(style.PrimaryColor),
		FontFamily:   strings.TrimSpace(style.FontFamily),
		FontSize:     style.FontSize,
		Spacing:      style.Spacing,
		Margins:      style.Margins,
	}
	if resolved.PrimaryColor == "" {
		resolved.PrimaryColor = defaultPrimaryColor
	}
	if resolved.FontFamily == "" {
		resolved.FontFamily = defaultFontFamily
	}
	if resolved.FontSize <= 0 {
		resolved.FontSize = defaultFontSize
	}
	if resolved.Spacing <= 0 {
		resolved.Spacing = defaultSpacing
	}
	if resolved.Margins <= 0 {
		resolved.Margins = defaultMargins
	}
	return resolved
}

func projectLinks(links []profiles.Link, blind bool) []LinkView {
	var out []LinkView
	for _, link := range links {
		if blind && link.Identifying {
			continue
		}
		out = append(out, LinkView{Label: link.Label, URL: link.URL})
	}
	return out
}

func projectExperience(entries []profiles.Experience, language string) []ExperienceView {
	var out []ExperienceView
	for _, entry := range entries {
		view := ExperienceView{
			Title:    entry.Title,
			Company:  entry.Company,
			Location: entry.Location,
			Period:   formatPeriod(entry.StartDate, entry.EndDate, entry.Current, language),
		}
		for _, line := range entry.Achievements {
			view.Achievements = append(view.Achievements, HighlightedText{Text: line})
		}
		out = append(out, view)
	}
	return out
}

func projectEducation(entries []profiles.Education, language string) []EducationView {
	var out []EducationView
	for _, entry := range entries {
		out = append(out, EducationView{
			Degree:      entry.Degree,
			Field:       entry.Field,
			Institution: entry.Institution,
			Period:      formatPeriod(entry.StartDate, entry.EndDate, false, language),
		})
	}
	return out
}

func projectSkills(skills []profiles.Skill) []SkillView {
	var out []SkillView
	for _, skill := range skills {
		out = append(out, SkillView{Name: skill.Name, Level: skill.Level})
	}
	return out
}

func selectPortfolio(items []profiles.PortfolioItem, sel PortfolioSelection) []PortfolioView {
	var picked []profiles.PortfolioItem
	switch {
	case len(sel.IDs) > 0:
		byID := make(map[string]profiles.PortfolioItem, len(items))
		for _, item := range items {
			byID[item.ID] = item
		}
		for _, id := range sel.IDs {
			// Unresolvable ids are skipped, not an error.
			if item, ok := byID[id]; ok {
				picked = append(picked, item)
			}
		}
	case sel.FirstN > 0:
		n := sel.FirstN
		if n > len(items) {
			n = len(items)
		}
		picked = items[:n]
	default:
		picked = items
	}

	var out []PortfolioView
	for _, item := range picked {
		out = append(out, PortfolioView{Title: item.Title, Description: item.Description, URL: item.URL})
	}
	return out
}

// formatPeriod renders "2020-01 – 2022-06" style ranges, substituting the
// localized "Present" string for open-ended roles.
func formatPeriod(start, end string, current bool, language string) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if current || end == "" {
		end = localize(language, "present")
	}
	if start == "" {
		if end == "" {
			return ""
		}
		return end
	}
	return start + " – " + end
}
