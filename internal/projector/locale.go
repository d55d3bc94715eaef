package projector

import "strings"

const baseLanguage = "en"

// Section labels and fixed strings per supported language. Any unsupported
// locale falls back to the base language.
var localeStrings = map[string]map[string]string{
	"en": {
		"summary":        "Summary",
		"experience":     "Experience",
		"education":      "Education",
		"skills":         "Skills",
		"certifications": "Certifications",
		"projects":       "Projects",
		"publications":   "Publications",
		"languages":      "Languages",
		"portfolio":      "Portfolio",
		"present":        "Present",
	},
	"es": {
		"summary":        "Resumen",
		"experience":     "Experiencia",
		"education":      "Educación",
		"skills":         "Habilidades",
		"certifications": "Certificaciones",
		"projects":       "Proyectos",
		"publications":   "Publicaciones",
		"languages":      "Idiomas",
		"portfolio":      "Portafolio",
		"present":        "Actualidad",
	},
	"fr": {
		"summary":        "Profil",
		"experience":     "Expérience",
		"education":      "Formation",
		"skills":         "Compétences",
		"certifications": "Certifications",
		"projects":       "Projets",
		"publications":   "Publications",
		"languages":      "Langues",
		"portfolio":      "Portfolio",
		"present":        "Aujourd'hui",
	},
	"de": {
		"summary":        "Profil",
		"experience":     "Berufserfahrung",
		"education":      "Ausbildung",
		"skills":         "Kenntnisse",
		"certifications": "Zertifikate",
		"projects":       "Projekte",
		"publications":   "Publikationen",
		"languages":      "Sprachen",
		"portfolio":      "Portfolio",
		"present":        "Heute",
	},
}

// NormalizeLanguage maps a requested locale to a supported language code.
// Region subtags are ignored ("en-GB" -> "en"); unknown locales fall back to
// the base language.
func NormalizeLanguage(code string) string {
	lang := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := localeStrings[lang]; !ok {
		return baseLanguage
	}
	return lang
}

// Labels returns the label table for a language.
func Labels(language string) map[string]string {
	table := localeStrings[NormalizeLanguage(language)]
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

func localize(language, key string) string {
	if s, ok := localeStrings[NormalizeLanguage(language)][key]; ok {
		return s
	}
	return localeStrings[baseLanguage][key]
}
