package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/placedesk/placedesk/internal/cli"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "  yes  \n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "sure\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			result := cli.Confirm(&out, strings.NewReader(tt.input), "Proceed?")
			assert.Equal(t, tt.want, result.Accepted)
			assert.False(t, result.Cancelled)
			assert.Equal(t, "Proceed? [y/N] ", out.String())
		})
	}
}
