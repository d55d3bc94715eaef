package markup

import (
	"strings"
	"testing"

	"cvgen-backend/internal/projector"
	"cvgen-backend/internal/templates"
)

func tmplWith(body string) templates.Template {
	return templates.Template{ID: "t1", Name: "Test", Body: body}
}

func TestRenderSubstitutesFields(t *testing.T) {
	ctx := projector.RenderContext{Name: "Jane Doe", Headline: "Engineer"}

	out, err := Render(tmplWith("<h1>{{name}}</h1><p>{{headline}}</p>"), ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<h1>Jane Doe</h1><p>Engineer</p>" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestRenderMissingFieldIsEmpty(t *testing.T) {
	out, err := Render(tmplWith("<p>{{name}}</p><p>{{nonexistent.deep.path}}</p>"), projector.RenderContext{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<p></p><p></p>" {
		t.Fatalf("expected empty substitutions, got %s", out)
	}
	if strings.Contains(out, "{{") {
		t.Fatalf("raw placeholder leaked: %s", out)
	}
}

func TestRenderEscapesValues(t *testing.T) {
	ctx := projector.RenderContext{Name: `<script>alert("x")</script>`}

	out, err := Render(tmplWith("{{name}}"), ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("value was not escaped: %s", out)
	}
}

func TestRenderConditional(t *testing.T) {
	withSummary := projector.RenderContext{Summary: "Ten years of Go."}
	without := projector.RenderContext{}

	body := `{{#if summary}}<section>{{summary}}</section>{{/if}}`

	out, err := Render(tmplWith(body), withSummary)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<section>Ten years of Go.</section>" {
		t.Fatalf("unexpected output: %s", out)
	}

	out, err = Render(tmplWith(body), without)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output for absent field, got %s", out)
	}
}

func TestRenderIteration(t *testing.T) {
	ctx := projector.RenderContext{
		Skills: []projector.SkillView{
			{Name: "Go", Emphasis: true},
			{Name: "SQL"},
		},
	}

	body := `<ul>{{#each skills}}<li{{#if emphasis}} class="match"{{/if}}>{{name}}</li>{{/each}}</ul>`
	out, err := Render(tmplWith(body), ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<ul><li class="match">Go</li><li>SQL</li></ul>`
	if out != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestRenderNestedIteration(t *testing.T) {
	ctx := projector.RenderContext{
		Experience: []projector.ExperienceView{
			{
				Title: "Engineer",
				Achievements: []projector.HighlightedText{
					{Text: "Shipped the thing"},
					{Text: "Fixed the other thing"},
				},
			},
		},
	}

	body := `{{#each experience}}<h3>{{title}}</h3>{{#each achievements}}<li>{{text}}</li>{{/each}}{{/each}}`
	out, err := Render(tmplWith(body), ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<h3>Engineer</h3><li>Shipped the thing</li><li>Fixed the other thing</li>`
	if out != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestRenderEmptyListIteratesZeroTimes(t *testing.T) {
	out, err := Render(tmplWith(`{{#each skills}}<li>{{name}}</li>{{/each}}done`), projector.RenderContext{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "done" {
		t.Fatalf("expected no iterations, got %s", out)
	}
}

func TestRenderOuterScopeVisibleInsideEach(t *testing.T) {
	ctx := projector.RenderContext{
		Name:   "Jane",
		Skills: []projector.SkillView{{Name: "Go"}},
	}

	out, err := Render(tmplWith(`{{#each skills}}{{name}}/{{/each}}{{name}}`), ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// Inside the block the item's own name shadows the outer one.
	if out != "Go/Jane" {
		t.Fatalf("unexpected scoping: %s", out)
	}
}

func TestRenderMalformedTemplates(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unclosed if", `{{#if summary}}never closed`},
		{"unclosed each", `{{#each skills}}no end`},
		{"stray close", `text{{/if}}`},
		{"mismatched close", `{{#if summary}}{{/each}}`},
		{"unterminated tag", `{{name`},
		{"empty tag", `{{}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Render(tmplWith(tc.body), projector.RenderContext{}); err == nil {
				t.Fatalf("expected error for %q", tc.body)
			}
		})
	}
}

func TestRenderBuiltinTemplates(t *testing.T) {
	ctx := projector.RenderContext{
		Name:     "Jane Doe",
		Headline: "Backend Engineer",
		Language: "en",
		Labels:   map[string]string{"summary": "Summary", "experience": "Experience"},
	}
	for _, tmpl := range templates.Builtins() {
		if _, err := Render(tmpl, ctx); err != nil {
			t.Fatalf("builtin %s failed to render: %v", tmpl.ID, err)
		}
	}
}
