package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeBotMarkup(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		contains    []string
		notContains []string
	}{
		{
			name:     "plain text passes through",
			in:       "What date works best for you?",
			contains: []string{"What date works best for you?"},
		},
		{
			name: "anchor keeps href target and style",
			in:   `By continuing you agree to our <a href="https://example.com/privacy" target="_blank" style="color: #3B82F6">privacy policy</a>.`,
			contains: []string{
				`href="https://example.com/privacy"`,
				`target="_blank"`,
				"privacy policy",
			},
		},
		{
			name:        "script is stripped",
			in:          `hello <script>alert("x")</script> world`,
			contains:    []string{"hello", "world"},
			notContains: []string{"<script>", "alert"},
		},
		{
			name:        "image is stripped",
			in:          `see <img src="x" onerror="steal()"> this`,
			notContains: []string{"<img", "onerror"},
		},
		{
			name:        "anchor drops event handlers",
			in:          `<a href="https://example.com" onclick="evil()">link</a>`,
			contains:    []string{`href="https://example.com"`, "link"},
			notContains: []string{"onclick"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeBotMarkup(tt.in)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.notContains {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestEscapeUserText(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", escapeUserText("<b>hi</b>"))
	assert.Equal(t, "Tom &amp; Jerry", escapeUserText("Tom & Jerry"))
	assert.Equal(t, "plain", escapeUserText("plain"))
}
