package memo

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/xhad/memogen/internal/models"
)

// Compiler fills the language-keyed memo template with generated section
// text. It is deterministic string interpolation: no control flow, and the
// only failure mode is a missing required section.
type Compiler struct {
	templates map[models.Language]*template.Template
}

func NewCompiler() *Compiler {
	templates := make(map[models.Language]*template.Template, len(memoTemplates))
	for language, text := range memoTemplates {
		templates[language] = template.Must(
			template.New(string(language)).Option("missingkey=error").Parse(text))
	}
	return &Compiler{templates: templates}
}

// Compile substitutes the sections into the template for the target
// language. Every required section must be present.
func (c *Compiler) Compile(sections map[string]string, language models.Language) (string, error) {
	tmpl, ok := c.templates[language]
	if !ok {
		return "", fmt.Errorf("no memo template for language %q", language)
	}

	for _, name := range RequiredSections {
		if _, ok := sections[name]; !ok {
			return "", fmt.Errorf("missing memo section %q", name)
		}
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, sections); err != nil {
		return "", fmt.Errorf("failed to compile memo: %w", err)
	}
	return b.String(), nil
}
