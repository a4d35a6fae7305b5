package meta_test

import (
	"testing"

	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendProcessingMethod(t *testing.T) {
	dp := meta.DataProcessing{
		ID: "pwiz_processing",
		Methods: []meta.ProcessingMethod{
			{Order: 0, SoftwareRef: "pwiz", Params: cv.ParamList{cv.NewUserParam("peak picking", cv.Value{})}},
		},
	}

	extended := dp.AppendProcessingMethod(meta.ProcessingMethod{SoftwareRef: "mzdata-go"})

	require.Len(t, extended.Methods, 2)
	assert.Equal(t, 1, extended.Methods[1].Order)
	assert.Equal(t, "mzdata-go", extended.Methods[1].SoftwareRef)
	// original must be untouched (copy-on-append discipline)
	assert.Len(t, dp.Methods, 1)
}

func TestMetadataLookups(t *testing.T) {
	m := meta.Metadata{
		InstrumentConfigurations: []meta.InstrumentConfiguration{{ID: "IC1"}},
		SoftwareList:              []meta.Software{{ID: "pwiz", Version: "3.0"}},
	}

	ic, ok := m.InstrumentByID("IC1")
	require.True(t, ok)
	assert.Equal(t, "IC1", ic.ID)

	_, ok = m.InstrumentByID("missing")
	assert.False(t, ok)

	sw, ok := m.SoftwareByID("pwiz")
	require.True(t, ok)
	assert.Equal(t, "3.0", sw.Version)
}
