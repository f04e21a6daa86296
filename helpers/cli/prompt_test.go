package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadLines(t *testing.T) {
	t.Parallel()
	input := "PAGE-Main\n\n  # comment\n  5:ON-200  \n"
	var lines []string
	ReadLines(bufio.NewReader(strings.NewReader(input)), func(line string) { lines = append(lines, line) })
	assert.Equal(t, []string{"PAGE-Main", "5:ON-200"}, lines)
}
