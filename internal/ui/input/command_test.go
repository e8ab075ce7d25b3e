package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want Command
		ok   bool
	}{
		{"", Command{}, false},
		{"   ", Command{}, false},
		{"p", Command{Kind: Pass}, true},
		{"PASS", Command{Kind: Pass}, true},
		{"?", Command{Kind: Hint}, true},
		{"join 123456", Command{Kind: Join, Arg: "123456"}, true},
		{"create  5 ", Command{Kind: Create, Arg: "5"}, true},
		{"33", Command{Kind: Play, Arg: "33"}, true},
		{"Q", Command{Kind: Play, Arg: "Q"}, true},
		{"exit", Command{Kind: Quit}, true},
		{"10 J Q K A", Command{Kind: Play, Arg: "10 J Q K A"}, true},
		{"h5h6h7h8h9", Command{Kind: Play, Arg: "h5h6h7h8h9"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			got, ok := Parse(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"5", 5, false},
		{"a", 1, false},
		{"K", 13, false},
		{"x", 0, true},
	}

	for _, tt := range tests {
		got, err := LevelArg(tt.arg)
		if tt.wantErr {
			assert.Error(t, err, tt.arg)
			continue
		}
		assert.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}
}
