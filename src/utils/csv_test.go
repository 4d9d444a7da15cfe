package utils_test

import (
	"strings"
	"testing"

	"kitemate/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHoldingsCSV(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		file := strings.NewReader(
			"symbol,quantity,average_price,last_price,exchange,sector\n" +
				"infy,10,1400.50,1520.00,NSE,IT\n" +
				"TCS,5,3200,3350.25,,IT\n")

		rows, rowErrors, err := utils.ParseHoldingsCSV(file)
		require.NoError(t, err)
		assert.Empty(t, rowErrors)
		require.Len(t, rows, 2)

		assert.Equal(t, "INFY", rows[0].Symbol)
		assert.Equal(t, 10.0, rows[0].Quantity)
		assert.Equal(t, "NSE", rows[1].Exchange, "exchange should default to NSE")
	})

	t.Run("row errors do not abort the rest", func(t *testing.T) {
		file := strings.NewReader(
			"symbol,quantity,average_price,last_price\n" +
				"INFY,0,1400,1500\n" +
				"TCS,5,3200,3350\n" +
				",2,100,100\n")

		rows, rowErrors, err := utils.ParseHoldingsCSV(file)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "TCS", rows[0].Symbol)

		require.Len(t, rowErrors, 2)
		// header is row 1, first data row is row 2
		assert.Equal(t, 2, rowErrors[0].Row)
		assert.Contains(t, rowErrors[0].Message, "quantity")
		assert.Equal(t, 4, rowErrors[1].Row)
	})

	t.Run("missing header column", func(t *testing.T) {
		file := strings.NewReader("symbol,quantity,average_price\nINFY,10,1400\n")

		_, _, err := utils.ParseHoldingsCSV(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "last_price")
	})
}
