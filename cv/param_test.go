package cv_test

import (
	"testing"

	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/mzerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamListGet(t *testing.T) {
	var l cv.ParamList
	l = l.Add(cv.NewCVParam("ms level", cv.CURIE{Vocabulary: cv.VocabMS, Accession: 1000511}, cv.NewInt64(2)))
	l = l.Add(cv.NewUserParam("custom note", cv.NewString("hello")))

	p, ok := l.Get("ms level")
	require.True(t, ok)
	assert.True(t, p.IsCVParam())

	_, ok = l.Get("missing")
	assert.False(t, ok)

	u, ok := l.Get("custom note")
	require.True(t, ok)
	assert.False(t, u.IsCVParam())
}

func TestParamGroupTable(t *testing.T) {
	table := cv.NewGroupTable()
	table.Define(cv.ParamGroup{
		ID:     "CommonInstrumentParams",
		Params: cv.ParamList{cv.NewUserParam("a", cv.NewInt64(1))},
	})

	resolved, unresolved := table.ResolveAll([]string{"CommonInstrumentParams", "Missing"})
	assert.Len(t, resolved, 1)
	assert.Equal(t, []string{"Missing"}, unresolved)

	_, err := table.Resolve("Missing")
	assert.ErrorIs(t, err, mzerr.ErrUnknownReference)
}
