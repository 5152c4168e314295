package crossword_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threepins/xword/internal/crossword"
)

// smallPuzzle is a 3x3 grid with a single block in the middle.
func smallPuzzle() []crossword.Entry {
	return []crossword.Entry{
		{Clue: "3a", Answer: "x-yz", X: 0, Y: 2},
		{Clue: "1d", Answer: "amx", X: 0, Y: 0, Down: true},
		{Clue: "1a", Answer: "ab c", X: 0, Y: 0},
		{Clue: "2d", Answer: "cnz", X: 2, Y: 0, Down: true},
	}
}

func TestNumeration(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"abc", "3"},
		{"ab c", "2,1"},
		{"x-yz", "1-2"},
		{"can't stop", "4,4"},
		{"jack-in-the-box", "4-2-3-3"},
		{"rock and roll-over", "4,3,4-4"},
		{"o'clock", "6"},
		// A placeholder still fills a square.
		{"a.c", "3"},
		{"ab .", "2,1"},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, crossword.Numeration(tt.answer))
		})
	}
}

func TestStripFormatting(t *testing.T) {
	assert.Equal(t, "abc", crossword.StripFormatting("ab c"))
	assert.Equal(t, "xyz", crossword.StripFormatting("x-yz"))
	assert.Equal(t, "cantstop", crossword.StripFormatting("can't stop"))
	assert.Equal(t, "a.c", crossword.StripFormatting("a.c"))
}

func TestBuildGridPattern(t *testing.T) {
	grid, err := crossword.BuildGrid(smallPuzzle(), 3)
	require.NoError(t, err)
	require.Len(t, grid, 3)

	for row := 0; row < 3; row++ {
		require.Len(t, grid[row], 3)
		for col := 0; col < 3; col++ {
			c := grid[row][col]
			assert.Equal(t, row, c.Row)
			assert.Equal(t, col, c.Col)
			if row == 1 && col == 1 {
				assert.Contains(t, c.Type, "block")
				assert.NotContains(t, c.Type, "light")
				assert.False(t, c.IsLight())
			} else {
				assert.Contains(t, c.Type, "light")
				assert.NotContains(t, c.Type, "block")
				assert.True(t, c.IsLight())
			}
		}
	}
}

func TestBuildGridNumbers(t *testing.T) {
	grid, err := crossword.BuildGrid(smallPuzzle(), 3)
	require.NoError(t, err)

	want := [][]int{{1, 0, 2}, {0, 0, 0}, {3, 0, 0}}
	for row := range want {
		for col := range want[row] {
			assert.Equal(t, want[row][col], grid[row][col].Number, "number at row %d col %d", row, col)
		}
	}
}

func TestBuildGridLetters(t *testing.T) {
	grid, err := crossword.BuildGrid(smallPuzzle(), 3)
	require.NoError(t, err)

	want := [][]string{{"A", "B", "C"}, {"M", "", "N"}, {"X", "Y", "Z"}}
	for row := range want {
		for col := range want[row] {
			assert.Equal(t, want[row][col], grid[row][col].Letter, "letter at row %d col %d", row, col)
		}
	}
}

func TestBuildGridBorders(t *testing.T) {
	grid, err := crossword.BuildGrid(smallPuzzle(), 3)
	require.NoError(t, err)

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			typ := grid[row][col].Type
			assert.Equal(t, row == 0, strings.Contains(typ, "topmost"), "topmost at %d,%d", row, col)
			assert.Equal(t, col == 0, strings.Contains(typ, "leftmost"), "leftmost at %d,%d", row, col)
		}
	}
	assert.Equal(t, "light topmost leftmost", grid[0][0].Type)
	assert.Equal(t, "block", grid[1][1].Type)
}

func TestBuildGridPlaceholder(t *testing.T) {
	entries := []crossword.Entry{{Clue: "1a", Answer: "a.c", X: 0, Y: 0}}
	grid, err := crossword.BuildGrid(entries, 3)
	require.NoError(t, err)

	assert.True(t, grid[0][1].IsLight())
	assert.Empty(t, grid[0][1].Letter)
	assert.Equal(t, "A", grid[0][0].Letter)
	assert.Equal(t, "C", grid[0][2].Letter)
}

func TestBuildGridIdempotent(t *testing.T) {
	first, err := crossword.BuildGrid(smallPuzzle(), 3)
	require.NoError(t, err)
	second, err := crossword.BuildGrid(smallPuzzle(), 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildGridErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry crossword.Entry
		want  error
	}{
		{"across past edge", crossword.Entry{Answer: "abcd", X: 0, Y: 0}, crossword.ErrOutOfBounds},
		{"down past edge", crossword.Entry{Answer: "ab", X: 0, Y: 2, Down: true}, crossword.ErrOutOfBounds},
		{"negative start", crossword.Entry{Answer: "a", X: -1, Y: 0}, crossword.ErrOutOfBounds},
		{"empty answer", crossword.Entry{Answer: "' -", X: 0, Y: 0}, crossword.ErrEmptyAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := crossword.BuildGrid([]crossword.Entry{tt.entry}, 3)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildGridSizeRange(t *testing.T) {
	for _, size := range []int{-1, crossword.MaxSize + 1} {
		_, err := crossword.BuildGrid(nil, size)
		require.ErrorIs(t, err, crossword.ErrGridSize, "size %d", size)
	}

	grid, err := crossword.BuildGrid(nil, crossword.MaxSize)
	require.NoError(t, err)
	assert.Len(t, grid, crossword.MaxSize)

	grid, err = crossword.BuildGrid(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestListClues(t *testing.T) {
	entries := smallPuzzle()
	grid, err := crossword.BuildGrid(entries, 3)
	require.NoError(t, err)

	across, err := crossword.ListClues(entries, grid, false)
	require.NoError(t, err)
	assert.Equal(t, []crossword.Clue{
		{Number: 1, Clue: "1a", Numeration: "2,1"},
		{Number: 3, Clue: "3a", Numeration: "1-2"},
	}, across)

	down, err := crossword.ListClues(entries, grid, true)
	require.NoError(t, err)
	assert.Equal(t, []crossword.Clue{
		{Number: 1, Clue: "1d", Numeration: "3"},
		{Number: 2, Clue: "2d", Numeration: "3"},
	}, down)
}

func TestListCluesNeedsMatchingGrid(t *testing.T) {
	grid, err := crossword.BuildGrid(nil, 3)
	require.NoError(t, err)

	_, err = crossword.ListClues(smallPuzzle(), grid, false)
	require.ErrorIs(t, err, crossword.ErrNotNumbered)
}

func TestRender(t *testing.T) {
	page, err := crossword.Render(crossword.Puzzle{Size: 3, Entries: smallPuzzle()})
	require.NoError(t, err)
	assert.Len(t, page.Grid, 3)
	assert.Len(t, page.Across, 2)
	assert.Len(t, page.Down, 2)

	hidden := page.Grid.WithoutLetters()
	assert.Empty(t, hidden[0][0].Letter)
	assert.Equal(t, 1, hidden[0][0].Number)
	assert.Equal(t, "A", page.Grid[0][0].Letter)
}

func TestRenderEmpty(t *testing.T) {
	page, err := crossword.Render(crossword.Puzzle{Size: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Across)
	assert.NotNil(t, page.Across)
	assert.NotNil(t, page.Down)
}

func TestThumbnail(t *testing.T) {
	blocks := []crossword.Point{{X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 2}}
	svg := crossword.Thumbnail(3, blocks, 10)

	assert.True(t, strings.HasPrefix(svg, `<svg width="30" height="30">`))
	assert.True(t, strings.HasSuffix(svg, `</svg>`))
	assert.Equal(t, 9, strings.Count(svg, "<rect "))
	assert.Equal(t, 3, strings.Count(svg, "fill:rgb(0,0,0)"))
	assert.Equal(t, 6, strings.Count(svg, "fill:rgb(255,255,255)"))

	for _, want := range []string{
		`rect y="0" x="0" width="10" height="10" style="fill:rgb(255,255,255);`,
		`rect y="0" x="20" width="10" height="10" style="fill:rgb(0,0,0);`,
		`rect y="10" x="0" width="10" height="10" style="fill:rgb(0,0,0);`,
		`rect y="10" x="20" width="10" height="10" style="fill:rgb(255,255,255);`,
		`rect y="20" x="10" width="10" height="10" style="fill:rgb(0,0,0);`,
	} {
		assert.Contains(t, svg, want)
	}
}

func TestThumbnailDeterministic(t *testing.T) {
	blocks := []crossword.Point{{X: 1, Y: 1}, {X: 0, Y: 2}}
	reversed := []crossword.Point{{X: 0, Y: 2}, {X: 1, Y: 1}}
	assert.Equal(t, crossword.Thumbnail(4, blocks, 10), crossword.Thumbnail(4, reversed, 10))
}
