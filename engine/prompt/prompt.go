// Package prompt renders the messages sent to participants. Templates use
// text/template syntax over a flat string map; a placeholder with no
// binding is an error, never silently left in the output.
package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Template names.
const (
	IntroAdventurer   = "intro_adv"
	IntroDM           = "intro_dm"
	Rules             = "rules"
	CombatAdventurer  = "combat_adv"
	CombatDM          = "combat_dm"
	NewTurnAdventurer = "newturn_adv"
	NewTurnDM         = "newturn_dm"
	Reprompt          = "reprompt"
)

var names = []string{
	IntroAdventurer, IntroDM, Rules, CombatAdventurer, CombatDM,
	NewTurnAdventurer, NewTurnDM, Reprompt,
}

// Set holds one template text per name.
type Set struct {
	texts map[string]string
}

// Default returns the templates shipped with the binary.
func Default() (*Set, error) {
	s := &Set{texts: map[string]string{}}
	for _, name := range names {
		data, err := fs.ReadFile(defaultTemplates, "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
		s.texts[name] = string(data)
	}
	return s, nil
}

// Load returns the default templates with any <name>.tmpl file found in
// dir taking precedence.
func Load(dir string) (*Set, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading prompt directory %s: %w", dir, err)
	}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".tmpl")
		if e.IsDir() || !ok {
			continue
		}
		if _, known := s.texts[name]; !known {
			return nil, fmt.Errorf("unknown prompt template %q in %s", e.Name(), dir)
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		s.texts[name] = string(data)
	}
	return s, nil
}

// Render fills the named template.
func (s *Set) Render(name string, bindings map[string]string) (string, error) {
	text, ok := s.texts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	return Render(name, text, bindings)
}

// Render fills text with bindings. Every placeholder must be bound.
func Render(name, text string, bindings map[string]string) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, bindings); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
