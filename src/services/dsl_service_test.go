package services_test

import (
	"testing"

	"kitemate/src/schemas"
	"kitemate/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *schemas.WidgetConfig {
	return &schemas.WidgetConfig{
		Source:    "holdings",
		Metric:    "market_value",
		Dimension: "sector",
		Chart:     schemas.ChartOptions{Kind: "pie", Title: "Allocation"},
	}
}

func TestValidateConfig(t *testing.T) {
	service := services.NewDSLService()

	t.Run("accepts a valid config", func(t *testing.T) {
		assert.NoError(t, service.ValidateConfig(validConfig()))
	})

	t.Run("rejects unknown metric", func(t *testing.T) {
		config := validConfig()
		config.Metric = "sharpe_ratio"
		err := service.ValidateConfig(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sharpe_ratio")
	})

	t.Run("rejects unknown dimension", func(t *testing.T) {
		config := validConfig()
		config.Dimension = "isin; DROP TABLE holdings"
		assert.Error(t, service.ValidateConfig(config))
	})

	t.Run("rejects unknown filter field", func(t *testing.T) {
		config := validConfig()
		config.Filters = []schemas.ConfigFilter{{Field: "password", Op: "eq", Value: "x"}}
		assert.Error(t, service.ValidateConfig(config))
	})

	t.Run("rejects pie chart without dimension", func(t *testing.T) {
		config := validConfig()
		config.Dimension = ""
		err := service.ValidateConfig(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dimension")
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		config := validConfig()
		config.Source = "transactions"
		assert.Error(t, service.ValidateConfig(config))
	})

	t.Run("rejects out of range limit", func(t *testing.T) {
		config := validConfig()
		config.Limit = 10000
		assert.Error(t, service.ValidateConfig(config))
	})
}

func TestParseModelOutput(t *testing.T) {
	service := services.NewDSLService()

	t.Run("plain JSON", func(t *testing.T) {
		config, err := service.ParseModelOutput(
			`{"source":"holdings","metric":"market_value","dimension":"sector","chart":{"kind":"pie","title":"By sector"}}`)
		require.NoError(t, err)
		assert.Equal(t, "market_value", config.Metric)
	})

	t.Run("strips code fences", func(t *testing.T) {
		config, err := service.ParseModelOutput("```json\n" +
			`{"source":"holdings","metric":"unrealized_pnl","dimension":"symbol","chart":{"kind":"bar"}}` +
			"\n```")
		require.NoError(t, err)
		assert.Equal(t, "unrealized_pnl", config.Metric)
		assert.Equal(t, "bar", config.Chart.Kind)
	})

	t.Run("rejects non-JSON chatter", func(t *testing.T) {
		_, err := service.ParseModelOutput("Sure! Here is your widget: pie chart by sector.")
		assert.Error(t, err)
	})

	t.Run("rejects JSON that fails validation", func(t *testing.T) {
		_, err := service.ParseModelOutput(
			`{"source":"holdings","metric":"market_value","chart":{"kind":"scatter"}}`)
		assert.Error(t, err)
	})
}
