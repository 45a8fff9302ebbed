package templates

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTemplateNotFound is returned when a template name has no registration.
// Callers treat it as "skip this notification's content", not as a fatal
// failure.
var ErrTemplateNotFound = errors.New("template not found")

// Template holds the per-channel format strings of one notification kind.
// Empty fields mean the template produces no content for that channel.
type Template struct {
	Subject      string
	EmailBody    string
	InAppMessage string
	PushTitle    string
	PushBody     string
}

// Rendered is a Template with all placeholders substituted.
type Rendered struct {
	Subject      string
	EmailBody    string
	InAppMessage string
	PushTitle    string
	PushBody     string
}

// Render substitutes data into every format string of the template.
func (t Template) Render(data map[string]any) Rendered {
	return Rendered{
		Subject:      Render(t.Subject, data),
		EmailBody:    Render(t.EmailBody, data),
		InAppMessage: Render(t.InAppMessage, data),
		PushTitle:    Render(t.PushTitle, data),
		PushBody:     Render(t.PushBody, data),
	}
}

// Registry stores named templates.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register adds or replaces a template under name.
func (r *Registry) Register(name string, t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = t
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return t, nil
}

// RenderNamed looks up name and renders it against data.
func (r *Registry) RenderNamed(name string, data map[string]any) (Rendered, error) {
	t, err := r.Get(name)
	if err != nil {
		return Rendered{}, err
	}
	return t.Render(data), nil
}
