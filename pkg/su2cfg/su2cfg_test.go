package su2cfg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CommentsAndTrimming(t *testing.T) {
	input := "% comment\nA=1\nB = two \n#also comment\n"

	f, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "1", "B": "two"}, f.Map())
}

func TestParse_FirstEqualsSplits(t *testing.T) {
	f, err := Parse(strings.NewReader("MARKER_PLOTTING= ( airfoil, x=1 )\n"))
	require.NoError(t, err)

	v, ok := f.Get("MARKER_PLOTTING")
	require.True(t, ok)
	assert.Equal(t, "( airfoil, x=1 )", v)
}

func TestParse_BlankKeysDropped(t *testing.T) {
	f, err := Parse(strings.NewReader("= orphan value\n  =1\nOK= yes\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.Len())
	_, ok := f.Get("")
	assert.False(t, ok)
}

func TestParse_OrderPreserved(t *testing.T) {
	input := "SOLVER= RANS\nMACH_NUMBER= 0.2\nAOA= 1.25\n"

	f, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	opts := f.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, "SOLVER", opts[0].Key)
	assert.Equal(t, "MACH_NUMBER", opts[1].Key)
	assert.Equal(t, "AOA", opts[2].Key)
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	f, err := Parse(strings.NewReader("ITER= 100\nITER= 500\n"))
	require.NoError(t, err)

	v, _ := f.Get("ITER")
	assert.Equal(t, "500", v)
	assert.Equal(t, 1, f.Len())
}

func TestWrite_RoundTrip(t *testing.T) {
	f, err := Parse(strings.NewReader("SOLVER= RANS\nITER= 500\n"))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, f.Write(&sb))

	again, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, f.Map(), again.Map())
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile("does/not/exist.cfg")
	assert.Error(t, err)
}
