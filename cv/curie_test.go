package cv_test

import (
	"testing"

	"github.com/msspeclib/mzdata/cv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCURIE(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    cv.CURIE
		wantErr bool
	}{
		{"ms term", "MS:1000511", cv.CURIE{Vocabulary: cv.VocabMS, Accession: 1000511}, false},
		{"lowercase prefix", "ms:1000511", cv.CURIE{Vocabulary: cv.VocabMS, Accession: 1000511}, false},
		{"uo term", "UO:0000028", cv.CURIE{Vocabulary: cv.VocabUO, Accession: 28}, false},
		{"unknown vocabulary kept as unknown", "ZZ:42", cv.CURIE{Vocabulary: cv.VocabUnknown, Accession: 42}, false},
		{"missing colon", "MS1000511", cv.CURIE{}, true},
		{"non-numeric accession", "MS:abc", cv.CURIE{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cv.ParseCURIE(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCURIEStringRoundTrip(t *testing.T) {
	c := cv.CURIE{Vocabulary: cv.VocabMS, Accession: 1000511}
	assert.Equal(t, "MS:1000511", c.String())

	parsed, err := cv.ParseCURIE(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}

func TestCURIEIsZero(t *testing.T) {
	assert.True(t, cv.CURIE{}.IsZero())
	assert.False(t, cv.CURIE{Vocabulary: cv.VocabMS, Accession: 1}.IsZero())
}
