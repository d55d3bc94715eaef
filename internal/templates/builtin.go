package templates

import "time"

var builtinPublishedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

var allSections = []string{
	"summary", "experience", "education", "skills", "certifications",
	"projects", "publications", "languages", "custom", "portfolio",
}

// Builtins returns the built-in template set. Repos seed these on startup so
// a fresh deployment can generate documents without any template admin work.
func Builtins() []Template {
	return []Template{
		{
			ID:       "classic",
			Name:     "Classic",
			Category: "traditional",
			Capabilities: Capabilities{
				Sections:   allSections,
				ColorAxes:  []string{"primary"},
				FontAxes:   []string{"family", "size"},
				LayoutAxes: []string{"spacing", "margins"},
			},
			Body:      classicBody,
			Active:    true,
			IsDefault: true,
			CreatedAt: builtinPublishedAt,
		},
		{
			ID:       "modern",
			Name:     "Modern",
			Category: "contemporary",
			Capabilities: Capabilities{
				Sections:   allSections,
				ColorAxes:  []string{"primary"},
				FontAxes:   []string{"family", "size"},
				LayoutAxes: []string{"spacing"},
			},
			Body:      modernBody,
			Active:    true,
			CreatedAt: builtinPublishedAt,
		},
		{
			ID:       "compact",
			Name:     "Compact",
			Category: "traditional",
			Capabilities: Capabilities{
				Sections:  []string{"summary", "experience", "education", "skills", "languages"},
				ColorAxes: []string{"primary"},
				FontAxes:  []string{"size"},
			},
			Body:      compactBody,
			Active:    true,
			CreatedAt: builtinPublishedAt,
		},
	}
}

const classicBody = `<!DOCTYPE html>
<html lang="{{language}}">
<head>
<meta charset="utf-8">
<style>
  body { font-family: {{style.fontFamily}}; font-size: {{style.fontSize}}pt; margin: {{style.margins}}mm; color: #1a1a1a; }
  h1 { color: {{style.primaryColor}}; margin-bottom: 2px; }
  h2 { color: {{style.primaryColor}}; border-bottom: 1px solid {{style.primaryColor}}; margin-top: {{style.spacing}}px; }
  .contact { color: #555; }
  .entry { margin-bottom: {{style.spacing}}px; }
  .period { color: #777; font-style: italic; }
  .match { font-weight: bold; }
  {{#if accessibility.highContrast}}body { color: #000; background: #fff; } h1, h2 { color: #000; }{{/if}}
  {{#if accessibility.largeText}}body { font-size: 14pt; }{{/if}}
</style>
</head>
<body>
<header>
  {{#if name}}<h1>{{name}}</h1>{{/if}}
  {{#if headline}}<p class="headline">{{headline}}</p>{{/if}}
  <p class="contact">{{#if email}}{{email}}{{/if}} {{#if phone}}&middot; {{phone}}{{/if}} {{#if location}}&middot; {{location}}{{/if}}</p>
  {{#each links}}<p class="contact"><a href="{{url}}">{{label}}</a></p>{{/each}}
</header>
{{#if summary}}
<section><h2>{{labels.summary}}</h2><p>{{summary}}</p></section>
{{/if}}
{{#if experience}}
<section><h2>{{labels.experience}}</h2>
{{#each experience}}
<div class="entry">
  <strong>{{title}}</strong> &mdash; {{company}}{{#if location}}, {{location}}{{/if}}
  <div class="period">{{period}}</div>
  <ul>{{#each achievements}}<li{{#if emphasis}} class="match"{{/if}}>{{text}}</li>{{/each}}</ul>
</div>
{{/each}}
</section>
{{/if}}
{{#if education}}
<section><h2>{{labels.education}}</h2>
{{#each education}}
<div class="entry"><strong>{{degree}}</strong>{{#if field}}, {{field}}{{/if}} &mdash; {{institution}} <span class="period">{{period}}</span></div>
{{/each}}
</section>
{{/if}}
{{#if skills}}
<section><h2>{{labels.skills}}</h2>
<p>{{#each skills}}<span{{#if emphasis}} class="match"{{/if}}>{{name}}</span> {{/each}}</p>
</section>
{{/if}}
{{#if certifications}}
<section><h2>{{labels.certifications}}</h2>
<ul>{{#each certifications}}<li>{{name}}{{#if issuer}} ({{issuer}}){{/if}}</li>{{/each}}</ul>
</section>
{{/if}}
{{#if projects}}
<section><h2>{{labels.projects}}</h2>
{{#each projects}}<div class="entry"><strong>{{name}}</strong>{{#if description}} &mdash; {{description}}{{/if}}</div>{{/each}}
</section>
{{/if}}
{{#if publications}}
<section><h2>{{labels.publications}}</h2>
<ul>{{#each publications}}<li>{{title}}{{#if venue}}, {{venue}}{{/if}}{{#if year}} ({{year}}){{/if}}</li>{{/each}}</ul>
</section>
{{/if}}
{{#if languages}}
<section><h2>{{labels.languages}}</h2>
<p>{{#each languages}}{{name}}{{#if proficiency}} ({{proficiency}}){{/if}} {{/each}}</p>
</section>
{{/if}}
{{#each customSections}}
<section><h2>{{title}}</h2><ul>{{#each items}}<li>{{.}}</li>{{/each}}</ul></section>
{{/each}}
{{#if portfolio}}
<section><h2>{{labels.portfolio}}</h2>
{{#each portfolio}}<div class="entry"><strong>{{title}}</strong>{{#if description}} &mdash; {{description}}{{/if}}{{#if url}} <a href="{{url}}">{{url}}</a>{{/if}}</div>{{/each}}
</section>
{{/if}}
</body>
</html>`

const modernBody = `<!DOCTYPE html>
<html lang="{{language}}">
<head>
<meta charset="utf-8">
<style>
  body { font-family: {{style.fontFamily}}; font-size: {{style.fontSize}}pt; margin: 0; color: #222; }
  .banner { background: {{style.primaryColor}}; color: #fff; padding: 24px; }
  .banner h1 { margin: 0; }
  main { padding: 24px; }
  h2 { text-transform: uppercase; letter-spacing: 1px; font-size: 0.9em; color: {{style.primaryColor}}; margin-top: {{style.spacing}}px; }
  .entry { margin-bottom: {{style.spacing}}px; }
  .period { color: #888; font-size: 0.9em; }
  .match { background: #fff3bf; }
  .chip { display: inline-block; border: 1px solid {{style.primaryColor}}; border-radius: 10px; padding: 1px 8px; margin: 2px; }
  {{#if accessibility.highContrast}}.banner { background: #000; } h2 { color: #000; } .chip { border-color: #000; }{{/if}}
  {{#if accessibility.largeText}}body { font-size: 14pt; }{{/if}}
</style>
</head>
<body>
<div class="banner">
  {{#if name}}<h1>{{name}}</h1>{{/if}}
  {{#if headline}}<p>{{headline}}</p>{{/if}}
  <p>{{#if email}}{{email}}{{/if}} {{#if phone}}| {{phone}}{{/if}} {{#if location}}| {{location}}{{/if}}</p>
</div>
<main>
{{#if summary}}<section><h2>{{labels.summary}}</h2><p>{{summary}}</p></section>{{/if}}
{{#if skills}}
<section><h2>{{labels.skills}}</h2>
{{#each skills}}<span class="chip{{#if emphasis}} match{{/if}}">{{name}}</span>{{/each}}
</section>
{{/if}}
{{#if experience}}
<section><h2>{{labels.experience}}</h2>
{{#each experience}}
<div class="entry">
  <strong>{{title}}</strong> &middot; {{company}} <span class="period">{{period}}</span>
  <ul>{{#each achievements}}<li{{#if emphasis}} class="match"{{/if}}>{{text}}</li>{{/each}}</ul>
</div>
{{/each}}
</section>
{{/if}}
{{#if education}}
<section><h2>{{labels.education}}</h2>
{{#each education}}<div class="entry">{{degree}}{{#if field}}, {{field}}{{/if}} &middot; {{institution}} <span class="period">{{period}}</span></div>{{/each}}
</section>
{{/if}}
{{#if projects}}
<section><h2>{{labels.projects}}</h2>
{{#each projects}}<div class="entry"><strong>{{name}}</strong>{{#if description}}: {{description}}{{/if}}</div>{{/each}}
</section>
{{/if}}
{{#if certifications}}
<section><h2>{{labels.certifications}}</h2>
<ul>{{#each certifications}}<li>{{name}}{{#if year}} ({{year}}){{/if}}</li>{{/each}}</ul>
</section>
{{/if}}
{{#if publications}}
<section><h2>{{labels.publications}}</h2>
<ul>{{#each publications}}<li>{{title}}{{#if year}} ({{year}}){{/if}}</li>{{/each}}</ul>
</section>
{{/if}}
{{#if languages}}
<section><h2>{{labels.languages}}</h2>
<p>{{#each languages}}{{name}} {{/each}}</p>
</section>
{{/if}}
{{#each customSections}}
<section><h2>{{title}}</h2><ul>{{#each items}}<li>{{.}}</li>{{/each}}</ul></section>
{{/each}}
{{#if portfolio}}
<section><h2>{{labels.portfolio}}</h2>
{{#each portfolio}}<div class="entry"><strong>{{title}}</strong>{{#if description}}: {{description}}{{/if}}</div>{{/each}}
</section>
{{/if}}
</main>
</body>
</html>`

const compactBody = `<!DOCTYPE html>
<html lang="{{language}}">
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: {{style.fontSize}}pt; margin: 14mm; color: #111; }
  h1 { font-size: 1.4em; margin: 0; color: {{style.primaryColor}}; }
  h2 { font-size: 1em; margin: 10px 0 2px; color: {{style.primaryColor}}; }
  p, ul { margin: 2px 0; }
  .period { color: #666; }
  .match { font-weight: bold; }
  {{#if accessibility.highContrast}}body, h1, h2 { color: #000; }{{/if}}
  {{#if accessibility.largeText}}body { font-size: 13pt; }{{/if}}
</style>
</head>
<body>
{{#if name}}<h1>{{name}}</h1>{{/if}}
<p>{{#if email}}{{email}}{{/if}}{{#if phone}} &middot; {{phone}}{{/if}}</p>
{{#if summary}}<h2>{{labels.summary}}</h2><p>{{summary}}</p>{{/if}}
{{#if experience}}
<h2>{{labels.experience}}</h2>
{{#each experience}}
<p><strong>{{title}}</strong>, {{company}} <span class="period">{{period}}</span></p>
<ul>{{#each achievements}}<li{{#if emphasis}} class="match"{{/if}}>{{text}}</li>{{/each}}</ul>
{{/each}}
{{/if}}
{{#if education}}
<h2>{{labels.education}}</h2>
{{#each education}}<p>{{degree}}, {{institution}} <span class="period">{{period}}</span></p>{{/each}}
{{/if}}
{{#if skills}}
<h2>{{labels.skills}}</h2>
<p>{{#each skills}}<span{{#if emphasis}} class="match"{{/if}}>{{name}}</span> {{/each}}</p>
{{/if}}
{{#if languages}}
<h2>{{labels.languages}}</h2>
<p>{{#each languages}}{{name}} {{/each}}</p>
{{/if}}
</body>
</html>`
