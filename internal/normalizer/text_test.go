package normalizer

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Great <em>show</em>!</p>", "Great show!"},
		{"Fish &amp; friends &quot;live&quot;", `Fish & friends "live"`},
		{"Line one<br>\nLine two\r\n\tLine three", "Line one Line two Line three"},
		{"  spaced    out  ", "spaced out"},
		{"<!-- hidden -->visible", "visible"},
		{"Tweezer > Reprise", "Tweezer > Reprise"},
		{"caf&eacute; &#8211; n&#233;e", "café \u2013 née"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.expected {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
