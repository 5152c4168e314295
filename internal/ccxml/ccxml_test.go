package ccxml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threepins/xword/internal/ccxml"
	"github.com/threepins/xword/internal/crossword"
)

const smallXML = `<?xml version="1.0" encoding="UTF-8"?>
<crossword-compiler xmlns="http://crossword.info/xml/crossword-compiler">
<rectangular-puzzle xmlns="http://crossword.info/xml/rectangular-puzzle" alphabet="ABCDEFGHIJKLMNOPQRSTUVWXYZ">
<crossword>
	<grid width="3" height="3">
		<grid-look numbering-scheme="normal" cell-size-in-pixels="21"/>
		<cell x="1" y="1" solution="A" number="1"/>
		<cell x="2" y="1" solution="B"/>
		<cell x="3" y="1" solution="C" number="2"/>
		<cell x="1" y="2" solution="M"/>
		<cell x="2" y="2" type="block"/>
		<cell x="3" y="2" solution="N"/>
		<cell x="1" y="3" solution="X" number="3"/>
		<cell x="2" y="3" solution="Y"/>
		<cell x="3" y="3" solution="Z"/>
	</grid>
	<word id="1" x="1-3" y="1" solution="ab c"/>
	<word id="2" x="1-3" y="3"/>
	<word id="3" x="1" y="1-3"/>
	<word id="4" x="3" y="1-3" solution="c-nz"/>
	<clues ordering="normal">
		<title><b>Across</b></title>
		<clue word="1" number="1" format="2,1">1a</clue>
		<clue word="2" number="3" format="3">3a &amp; more</clue>
	</clues>
	<clues ordering="normal">
		<title><b>Down</b></title>
		<clue word="3" number="1" format="3">1d</clue>
		<clue word="4" number="2" format="1-2">2d</clue>
	</clues>
</crossword>
</rectangular-puzzle>
</crossword-compiler>`

func TestImport(t *testing.T) {
	p, err := ccxml.Import(strings.NewReader(smallXML))
	require.NoError(t, err)

	assert.Equal(t, 3, p.Size)
	assert.Equal(t, []crossword.Entry{
		{Clue: "1a", Answer: "ab c", X: 0, Y: 0},
		{Clue: "3a &amp; more", Answer: "xyz", X: 0, Y: 2},
		{Clue: "1d", Answer: "amx", X: 0, Y: 0, Down: true},
		{Clue: "2d", Answer: "c-nz", X: 2, Y: 0, Down: true},
	}, p.Entries)
}

func TestImportBuildsGrid(t *testing.T) {
	p, err := ccxml.Import(strings.NewReader(smallXML))
	require.NoError(t, err)

	page, err := crossword.Render(p)
	require.NoError(t, err)
	assert.Equal(t, "Z", page.Grid[2][2].Letter)
	assert.Equal(t, "1-2", page.Down[1].Numeration)
}

func TestImportErrors(t *testing.T) {
	wrap := func(body string) string {
		return `<crossword-compiler><rectangular-puzzle xmlns="http://crossword.info/xml/rectangular-puzzle"><crossword>` +
			body + `</crossword></rectangular-puzzle></crossword-compiler>`
	}
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "missing clue",
			doc:  wrap(`<grid width="1" height="1"/><word id="1" x="1" y="1" solution="a"/>`),
			want: ccxml.ErrClueNotFound,
		},
		{
			name: "missing cell",
			doc: wrap(`<grid width="2" height="1"><cell x="1" y="1" solution="A"/></grid>` +
				`<word id="1" x="1-2" y="1"/><clues><clue word="1">c</clue></clues>`),
			want: ccxml.ErrCellNotFound,
		},
		{
			name: "bad coordinate",
			doc:  wrap(`<grid width="1" height="1"/><word id="1" x="a" y="1" solution="a"/><clues><clue word="1">c</clue></clues>`),
			want: ccxml.ErrMalformed,
		},
		{
			name: "negative width",
			doc:  wrap(`<grid width="-1" height="1"/>`),
			want: ccxml.ErrMalformed,
		},
		{
			name: "oversized grid",
			doc:  wrap(`<grid width="100000" height="100000"/>`),
			want: ccxml.ErrMalformed,
		},
		{
			name: "no grid",
			doc:  wrap(`<word id="1" x="1" y="1" solution="a"/><clues><clue word="1">c</clue></clues>`),
			want: ccxml.ErrMalformed,
		},
		{
			name: "no crossword element",
			doc:  `<crossword-compiler/>`,
			want: ccxml.ErrMalformed,
		},
		{
			name: "not xml",
			doc:  `<crossword`,
			want: ccxml.ErrMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ccxml.Import(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
