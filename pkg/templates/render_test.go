package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a4ad/notifier/pkg/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		data   map[string]any
		want   string
	}{
		{
			name:   "single placeholder",
			format: "request #{requestId} created",
			data:   map[string]any{"requestId": "42"},
			want:   "request #42 created",
		},
		{
			name:   "missing key left in place",
			format: "hello {missingKey}!",
			data:   map[string]any{"other": "x"},
			want:   "hello {missingKey}!",
		},
		{
			name:   "non-string value stringified",
			format: "{count} approvers",
			data:   map[string]any{"count": 3},
			want:   "3 approvers",
		},
		{
			name:   "repeated placeholder",
			format: "{id} and {id}",
			data:   map[string]any{"id": "a"},
			want:   "a and a",
		},
		{
			name:   "empty format",
			format: "",
			data:   map[string]any{"id": "a"},
			want:   "",
		},
		{
			name:   "nil data",
			format: "{key}",
			data:   nil,
			want:   "{key}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, templates.Render(tt.format, tt.data))
		})
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := templates.NewRegistry()
	r.Register("greeting", templates.Template{
		Subject:      "Hi {name}",
		InAppMessage: "{name} says hi",
	})

	t.Run("get registered", func(t *testing.T) {
		t.Parallel()
		tpl, err := r.Get("greeting")
		require.NoError(t, err)
		assert.Equal(t, "Hi {name}", tpl.Subject)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := r.Get("nope")
		assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
	})

	t.Run("render named", func(t *testing.T) {
		t.Parallel()
		out, err := r.RenderNamed("greeting", map[string]any{"name": "Ann"})
		require.NoError(t, err)
		assert.Equal(t, "Hi Ann", out.Subject)
		assert.Equal(t, "Ann says hi", out.InAppMessage)
	})
}

func TestDefaultsCoverConsumedTemplates(t *testing.T) {
	t.Parallel()

	r := templates.Defaults()

	for _, name := range []string{
		"request-created",
		"request-submitted",
		"request-submitted-confirmation",
		"request-approved",
		"request-rejected",
		"stage-timeout",
		"stage-timeout-initiator",
		"stage-reminder",
		"comment.created",
		"comment.liked",
		"post.liked",
		"mention.created",
	} {
		_, err := r.Get(name)
		assert.NoError(t, err, "template %s should be registered", name)
	}
}

func TestRenderRequestCreated(t *testing.T) {
	t.Parallel()

	r := templates.Defaults()
	out, err := r.RenderNamed("request-created", map[string]any{"requestId": "42"})
	require.NoError(t, err)
	assert.Contains(t, out.EmailBody, "42")
	assert.Contains(t, out.InAppMessage, "42")
}
