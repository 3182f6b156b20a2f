package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeHeadersUnique(t *testing.T) {
	in := []string{"Name", "Alter zum Kursbeginn", "Name", "Name", "Kurs "}
	out := MakeHeadersUnique(in)
	assert.Equal(t, []string{"Name", "Alter_zum_Kursbeginn", "Name1", "Name2", "Kurs_"}, out)
}

// Repeated loads of the same raw header list must disambiguate identically —
// column lookups downstream depend on the suffix scheme.
func TestMakeHeadersUniqueDeterministic(t *testing.T) {
	in := []string{"A", "B", "A", "B", "A"}
	first := MakeHeadersUnique(in)
	second := MakeHeadersUnique(in)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"A", "B", "A1", "B1", "A2"}, first)
}

func TestNewFrameSkipsHeaderRows(t *testing.T) {
	raw := [][]interface{}{
		{"Zahlungsliste Saison 24/25"},
		{"ID", "Bezahlt"},
		{"1", "TRUE"},
		{"2"},
	}
	f, err := NewFrame(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	id, err := f.Lookup("ID")
	require.NoError(t, err)
	paid, err := f.Lookup("Bezahlt")
	require.NoError(t, err)

	assert.Equal(t, "1", f.Get(0, id))
	assert.Equal(t, "TRUE", f.Get(0, paid))
	// ragged row: missing cell reads as empty
	assert.Equal(t, "", f.Get(1, paid))
}

func TestNewFrameTooShort(t *testing.T) {
	_, err := NewFrame([][]interface{}{{"only title"}}, 2)
	assert.Error(t, err)
}

func TestLookupUnknownColumn(t *testing.T) {
	f, err := NewFrame([][]interface{}{{"A"}}, 1)
	require.NoError(t, err)
	_, err = f.Lookup("B")
	assert.Error(t, err)
	assert.False(t, f.Has("B"))
	assert.True(t, f.Has("A"))
}

func TestCellConvertsNonStringValues(t *testing.T) {
	f, err := NewFrame([][]interface{}{{"N"}, {42}, {nil}}, 1)
	require.NoError(t, err)

	v, err := f.Cell(0, "N")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	v, err = f.Cell(1, "N")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
