package utils

import "time"

const ShortDashDateLayout = "2006-01-02"

// ShortDashDate formats a time with the short dashed layout.
func ShortDashDate(t time.Time) string {
	return t.Format(ShortDashDateLayout)
}

const NotificationsChannel = "kitemate:notifications"

// ChartColors defines a palette of distinct colors for widget previews.
// These colors are designed to be easily distinguishable from each other.
var ChartColors = []string{
	"#ffa366", // Light Orange
	"#ff8080", // Light Red
	"#80b3ff", // Light Blue
	"#a3d977", // Light Green
	"#c285ff", // Light Purple
	"#80e6d4", // Light Teal
	"#ffb366", // Medium Orange
	"#ff6666", // Medium Red
	"#80b366", // Medium Green
	"#e680ff", // Light Magenta
}

// GetChartColor returns a color from the chart color palette.
// If the index exceeds the palette size, it cycles back to the beginning.
func GetChartColor(index int) string {
	return ChartColors[index%len(ChartColors)]
}
