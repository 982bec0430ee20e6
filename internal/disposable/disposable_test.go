package disposable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDisposableEmail(t *testing.T) {
	c := New()

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"someone", false},
		{"gmail.com", false},
		{"@gmail.com", false},
		{"  @gmail.com", false},
		{"@gmail.com  ", false},
		{"0-mail.com", true},
		{"  0-mail.com", true},
		{"0-mail.com  ", true},
		{"@0-mail.com", true},
		{"@0-maIl.Com", true},
		{"someone@gmail.com", false},
		{"someone@0-mail.com", true},
		{"a@b@mailinator.com", true},
		{"someone@", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.IsDisposableEmail(tt.input))
		})
	}
}

func TestIsDisposableDomain(t *testing.T) {
	c := New()

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"   ", false},
		{"x", false},
		{"gmail", false},
		{"gmail.com", false},
		{"gMail.cOm", false},
		{"0-mail.com", true},
		{"0-MaIL.cOm", true},
		{"\t0-mail.com\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.IsDisposableDomain(tt.input))
		})
	}
}

func TestNew_ExtraDomains(t *testing.T) {
	base := New()
	c := New(" Burner.TEST ", "", "   ", "0-mail.com")

	assert.True(t, c.IsDisposableDomain("burner.test"))
	assert.True(t, c.IsDisposableEmail("me@BURNER.test"))
	assert.Equal(t, base.Len()+1, c.Len(), "blank and duplicate extras are not added")

	assert.False(t, base.IsDisposableDomain("burner.test"), "extras do not leak between checkers")
}
