// Package markup binds a render context to a template body, producing final
// markup. Placeholders use `{{field}}` with dotted paths, plus block
// constructs `{{#if field}}...{{/if}}` and `{{#each list}}...{{/each}}`.
//
// Rendering is total over the context: a placeholder whose field is absent
// resolves to empty output, a conditional on an absent field skips its body,
// and an iteration over an empty or absent sequence executes zero times.
// Only a malformed template body is an error.
package markup

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"cvgen-backend/internal/projector"
	"cvgen-backend/internal/templates"
)

// Render binds ctx to the template body.
func Render(tmpl templates.Template, ctx projector.RenderContext) (string, error) {
	nodes, err := parse(tmpl.Body)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", tmpl.ID, err)
	}

	root, err := lowerContext(ctx)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", tmpl.ID, err)
	}

	var sb strings.Builder
	renderNodes(&sb, nodes, []any{root})
	return sb.String(), nil
}

// lowerContext converts the typed RenderContext into a value tree the
// placeholder resolver walks. Field names follow the struct's JSON tags, so
// templates address the same names the preview API exposes.
func lowerContext(ctx projector.RenderContext) (map[string]any, error) {
	raw, err := json.Marshal(ctx)
	if err != nil {
		return nil, fmt.Errorf("lower context: %w", err)
	}
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("lower context: %w", err)
	}
	return root, nil
}

type node interface{}

type textNode struct {
	text string
}

type varNode struct {
	path string
}

type ifNode struct {
	path     string
	children []node
}

type eachNode struct {
	path     string
	children []node
}

// parse parses a template body into a node tree.
func parse(body string) ([]node, error) {
	nodes, _, err := parseNodes(body, "")
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// parseNodes consumes input until the closing tag for the enclosing block
// (or end of input at the top level) and returns the remaining input.
func parseNodes(input, enclosing string) ([]node, string, error) {
	var nodes []node
	for {
		open := strings.Index(input, "{{")
		if open < 0 {
			if enclosing != "" {
				return nil, "", fmt.Errorf("unclosed {{#%s}} block", enclosing)
			}
			if input != "" {
				nodes = append(nodes, &textNode{text: input})
			}
			return nodes, "", nil
		}

		if open > 0 {
			nodes = append(nodes, &textNode{text: input[:open]})
		}
		input = input[open:]

		end := strings.Index(input, "}}")
		if end < 0 {
			return nil, "", fmt.Errorf("unterminated tag near %q", truncate(input, 20))
		}
		tag := strings.TrimSpace(input[2:end])
		input = input[end+2:]

		switch {
		case strings.HasPrefix(tag, "#if "):
			path := strings.TrimSpace(strings.TrimPrefix(tag, "#if "))
			children, rest, err := parseNodes(input, "if")
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, &ifNode{path: path, children: children})
			input = rest
		case strings.HasPrefix(tag, "#each "):
			path := strings.TrimSpace(strings.TrimPrefix(tag, "#each "))
			children, rest, err := parseNodes(input, "each")
			if err != nil {
				return nil, "", err
			}
			nodes = append(nodes, &eachNode{path: path, children: children})
			input = rest
		case tag == "/if", tag == "/each":
			want := "/" + enclosing
			if enclosing == "" || tag != want {
				return nil, "", fmt.Errorf("unexpected {{%s}}", tag)
			}
			return nodes, input, nil
		case tag == "":
			return nil, "", fmt.Errorf("empty tag")
		default:
			nodes = append(nodes, &varNode{path: tag})
		}
	}
}

func renderNodes(sb *strings.Builder, nodes []node, scopes []any) {
	for _, n := range nodes {
		switch t := n.(type) {
		case *textNode:
			sb.WriteString(t.text)
		case *varNode:
			sb.WriteString(html.EscapeString(stringify(lookup(t.path, scopes))))
		case *ifNode:
			if truthy(lookup(t.path, scopes)) {
				renderNodes(sb, t.children, scopes)
			}
		case *eachNode:
			items, _ := lookup(t.path, scopes).([]any)
			for _, item := range items {
				renderNodes(sb, t.children, append(scopes, item))
			}
		}
	}
}

// lookup resolves a dotted path against the scope stack, innermost first.
// "." refers to the current scope value itself. Absent paths resolve to nil.
func lookup(path string, scopes []any) any {
	if path == "." {
		if len(scopes) == 0 {
			return nil
		}
		return scopes[len(scopes)-1]
	}

	segments := strings.Split(path, ".")
	for i := len(scopes) - 1; i >= 0; i-- {
		if value, ok := resolve(scopes[i], segments); ok {
			return value
		}
	}
	return nil
}

func resolve(scope any, segments []string) (any, bool) {
	current := scope
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON numbers arrive as float64; render integers without a decimal.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
