package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		growth   float64
		expected Trend
	}{
		{10, TrendGrowth},
		{0.0001, TrendGrowth},
		{1e9, TrendGrowth},
		{-0.0001, TrendDecline},
		{-100, TrendDecline},
		{0, TrendNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.growth), "Classify(%v)", tt.growth)
	}
}

func TestTrendColorsAreDistinct(t *testing.T) {
	colors := map[string]bool{
		TrendGrowth.Color():  true,
		TrendDecline.Color(): true,
		TrendNeutral.Color(): true,
	}
	assert.Len(t, colors, 3)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "220", FormatValue(220))
	assert.Equal(t, "90", FormatValue(90))
	assert.True(t, strings.HasPrefix(FormatValue(1234.5), "1,234"), FormatValue(1234.5))
}

func TestBuildSalesChart(t *testing.T) {
	spec, err := BuildSalesChart([]string{"Jan Q", "Apr Q"}, []float64{100, 120}, []float64{90, 130}, "Quarterly Sales vs Predicted Sales")
	require.NoError(t, err)

	assert.Equal(t, "line", spec.Type)
	assert.Equal(t, "Quarterly Sales vs Predicted Sales", spec.Title())
	require.Len(t, spec.Data.Datasets, 2)

	actual := spec.Dataset(ActualSalesLabel)
	predicted := spec.Dataset(PredictedSalesLabel)
	require.NotNil(t, actual)
	require.NotNil(t, predicted)

	assert.Equal(t, []float64{100, 120}, actual.Data)
	assert.Equal(t, []float64{90, 130}, predicted.Data)
	assert.Empty(t, actual.BorderDash)
	assert.Equal(t, []int{8, 4}, predicted.BorderDash)
	assert.NotEqual(t, actual.BorderColor, predicted.BorderColor)
	require.NotNil(t, actual.Gradient)
	assert.True(t, actual.Fill)
	assert.Equal(t, []string{"Actual Sales: $100", "Actual Sales: $120"}, actual.Tooltips)
}

func TestBuildSalesChartIsReproducible(t *testing.T) {
	a, err := BuildSalesChart([]string{"Jan"}, []float64{0}, []float64{50}, "Predicted Sales for 2025")
	require.NoError(t, err)
	b, err := BuildSalesChart([]string{"Jan"}, []float64{0}, []float64{50}, "Predicted Sales for 2025")
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestBuildSalesChartLengthMismatch(t *testing.T) {
	_, err := BuildSalesChart([]string{"Jan", "Feb"}, []float64{1}, []float64{1, 2}, "x")
	assert.True(t, errors.Is(err, ErrSeriesLength))
}

func TestBuildInventoryChart(t *testing.T) {
	spec, err := BuildInventoryChart(
		[]string{"Chairs", "Tables", "Binders"},
		[]float64{200, 80, 50},
		[]float64{220, 70, 50},
		[]float64{10, -12.5, 0},
	)
	require.NoError(t, err)

	assert.Equal(t, "bar", spec.Type)
	assert.Equal(t, InventoryTitle, spec.Title())

	current := spec.Dataset(CurrentSalesLabel)
	future := spec.Dataset(FutureSalesLabel)
	require.NotNil(t, current)
	require.NotNil(t, future)

	assert.Equal(t, Paint{TrendGrowth.Color(), TrendDecline.Color(), TrendNeutral.Color()}, future.BackgroundColor)
	assert.Len(t, current.BackgroundColor, 1)

	assert.Equal(t, "Current: $200", current.Tooltips[0])
	assert.Equal(t, "Future: $220 (10%)", future.Tooltips[0])
	assert.Equal(t, "Future: $70 (-12.5%)", future.Tooltips[1])
	assert.Equal(t, "Future: $50 (0%)", future.Tooltips[2])
}

func TestBuildInventoryChartLengthMismatch(t *testing.T) {
	_, err := BuildInventoryChart([]string{"Chairs"}, []float64{1}, []float64{1}, nil)
	assert.True(t, errors.Is(err, ErrSeriesLength))
}

func TestPaintJSON(t *testing.T) {
	single, err := json.Marshal(Solid("#fff"))
	require.NoError(t, err)
	assert.Equal(t, `"#fff"`, string(single))

	many, err := json.Marshal(Paint{"#fff", "#000"})
	require.NoError(t, err)
	assert.Equal(t, `["#fff","#000"]`, string(many))

	assert.Equal(t, "#000", Paint{"#fff", "#000"}.At(1))
	assert.Equal(t, "#fff", Solid("#fff").At(5))
	assert.Equal(t, "", Paint(nil).At(0))
}

func TestSpecJSONShape(t *testing.T) {
	spec, err := BuildInventoryChart([]string{"Chairs"}, []float64{200}, []float64{220}, []float64{10})
	require.NoError(t, err)

	raw, err := json.Marshal(spec)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "bar", decoded["type"])
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Chairs"}, data["labels"])
}
