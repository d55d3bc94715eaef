package projector

import "strings"

// applyTailoring re-orders achievement and skill lists so entries matching
// the target keywords come first, and marks matches for visual emphasis.
// Content is never fabricated or deleted: tailoring only re-orders and tags.
func applyTailoring(ctx *RenderContext, opts GenerationOptions) {
	keywords := collectKeywords(opts)
	if len(keywords) == 0 {
		return
	}

	// Experience entries keep their chronological order; only the
	// achievement lines inside each entry are re-ordered.
	for i := range ctx.Experience {
		entry := &ctx.Experience[i]
		for j := range entry.Achievements {
			if matchesAny(entry.Achievements[j].Text, keywords) {
				entry.Achievements[j].Emphasis = true
			}
		}
		entry.Achievements = stablePartitionAchievements(entry.Achievements)
	}

	for i := range ctx.Skills {
		if matchesAny(ctx.Skills[i].Name, keywords) {
			ctx.Skills[i].Emphasis = true
		}
	}
	ctx.Skills = stablePartitionSkills(ctx.Skills)
}

// collectKeywords merges the explicit emphasis list with the tailoring
// target's keyword list and any words of its job title.
func collectKeywords(opts GenerationOptions) []string {
	var raw []string
	raw = append(raw, opts.EmphasisTerms...)
	if opts.Tailoring != nil {
		raw = append(raw, opts.Tailoring.Keywords...)
		raw = append(raw, strings.Fields(opts.Tailoring.JobTitle)...)
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, kw := range raw {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// matchesAny reports a case-insensitive whole-word match of any keyword.
func matchesAny(text string, keywords []string) bool {
	words := tokenize(text)
	for _, kw := range keywords {
		if _, ok := words[kw]; ok {
			return true
		}
	}
	return false
}

func tokenize(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '#' || r == '.' || r == '-')
	}) {
		out[strings.Trim(field, ".-")] = struct{}{}
	}
	return out
}

// The partitions below are stable: matched entries keep their relative
// order, as do unmatched ones.

func stablePartitionAchievements(items []HighlightedText) []HighlightedText {
	out := make([]HighlightedText, 0, len(items))
	for _, item := range items {
		if item.Emphasis {
			out = append(out, item)
		}
	}
	for _, item := range items {
		if !item.Emphasis {
			out = append(out, item)
		}
	}
	return out
}

func stablePartitionSkills(items []SkillView) []SkillView {
	out := make([]SkillView, 0, len(items))
	for _, item := range items {
		if item.Emphasis {
			out = append(out, item)
		}
	}
	for _, item := range items {
		if !item.Emphasis {
			out = append(out, item)
		}
	}
	return out
}
