package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"statlab/domain/model"
)

func TestExportFitRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewWriter(path)

	fit := &model.Fit{
		Names:      []string{"intercept", "log_rd"},
		Params:     []float64{0.4, 0.5},
		StdErr:     []float64{0.1, 0.05},
		Lower:      []float64{0.204, 0.402},
		Upper:      []float64{0.596, 0.598},
		LogLik:     -120.5,
		Converged:  true,
		Iterations: 12,
	}
	require.NoError(t, w.ExportFit("patents", fit))
	require.NoError(t, w.ExportSummaries("patents", []model.ParamSummary{
		{Name: "intercept", Mean: 0.41, StdDev: 0.11, Lower: 0.2, Upper: 0.62},
	}))
	require.NoError(t, w.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("patents_mle", "A2")
	require.NoError(t, err)
	assert.Equal(t, "intercept", got)

	got, err = f.GetCellValue("patents_mle", "B3")
	require.NoError(t, err)
	assert.Equal(t, "0.5", got)

	got, err = f.GetCellValue("patents_posterior", "B2")
	require.NoError(t, err)
	assert.Equal(t, "0.41", got)
}

func TestSheetNameTruncated(t *testing.T) {
	name := sheetName("a-very-long-study-key-indeed-yes", "posterior")
	assert.LessOrEqual(t, len(name), 31)
}
