package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "[..........]", Bar(0, 12))
	assert.Equal(t, "[#####.....]", Bar(50, 12))
	assert.Equal(t, "[##########]", Bar(100, 12))
	assert.Equal(t, "[]", Bar(40, 1))
}

func TestProgressPlain(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, false, 40, "export")
	for _, v := range []int{0, 40, 40, 80, 100} {
		p.Update(v)
	}
	p.Done()
	assert.Equal(t, "export   0%\nexport  40%\nexport  80%\nexport 100%\n", buf.String())
}

func TestProgressTerminalRedraws(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, true, 40, "export")
	p.Update(50)
	p.Update(100)
	p.Done()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\r"))
	assert.True(t, strings.HasSuffix(out, "100%\n"))
}

func TestTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, []string{"Project", "Time"}, [][]string{
		{"Website Redesign", "2h"},
		{"設計", "45m"},
	}, 1)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Project           Time", lines[0])
	assert.Equal(t, "----------------  ----", lines[1])
	assert.Equal(t, "Website Redesign    2h", lines[2])
	assert.Equal(t, "設計               45m", lines[3])
}
