package model

// Symbol is one of the tickers the dashboard offers.
type Symbol string

// Option pairs a selectable value with its display label.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Symbols lists the supported tickers in display order.
var Symbols = []Option{
	{Label: "Apple Inc. (AAPL)", Value: "AAPL"},
	{Label: "Microsoft Corporation (MSFT)", Value: "MSFT"},
	{Label: "Amazon.com Inc. (AMZN)", Value: "AMZN"},
	{Label: "Alphabet Inc. (GOOGL)", Value: "GOOGL"},
	{Label: "Facebook, Inc. (FB)", Value: "FB"},
	{Label: "Tesla, Inc. (TSLA)", Value: "TSLA"},
	{Label: "NVIDIA Corporation (NVDA)", Value: "NVDA"},
	{Label: "PayPal Holdings, Inc. (PYPL)", Value: "PYPL"},
	{Label: "Netflix, Inc. (NFLX)", Value: "NFLX"},
	{Label: "Zoom Video Communications, Inc. (ZM)", Value: "ZM"},
}

// PlotStyle selects how the primary price trace is drawn.
type PlotStyle string

const (
	PlotCandlestick PlotStyle = "candlestick"
	PlotLine        PlotStyle = "line"
)

// PlotStyles lists the supported plot styles.
var PlotStyles = []Option{
	{Label: "Candlestick Chart", Value: string(PlotCandlestick)},
	{Label: "Line Chart", Value: string(PlotLine)},
}

// Interval is the sampling granularity of each bar.
type Interval string

const (
	Interval1Day   Interval = "1d"
	Interval1Week  Interval = "1wk"
	Interval1Month Interval = "1mo"
)

// Intervals lists the supported sampling intervals.
var Intervals = []Option{
	{Label: "1 Day", Value: string(Interval1Day)},
	{Label: "1 Week", Value: string(Interval1Week)},
	{Label: "1 Month", Value: string(Interval1Month)},
}

// ColorSchemes lists the named two-color schemes. Each value is
// "<color0>_<color1>".
var ColorSchemes = []Option{
	{Label: "Blue and Orange", Value: "blue_orange"},
	{Label: "Green and Red", Value: "green_red"},
	{Label: "Purple and Yellow", Value: "purple_yellow"},
	{Label: "Black and White", Value: "black_white"},
	{Label: "Pink and Gray", Value: "pink_gray"},
	{Label: "Teal and Brown", Value: "teal_brown"},
	{Label: "Cyan and Magenta", Value: "cyan_magenta"},
	{Label: "Navy Blue and Gold", Value: "navy_gold"},
	{Label: "Turquoise and Coral", Value: "turquoise_coral"},
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Valid reports whether s is a supported ticker.
func (s Symbol) Valid() bool { return hasOption(Symbols, string(s)) }

// Valid reports whether p is a supported plot style.
func (p PlotStyle) Valid() bool { return hasOption(PlotStyles, string(p)) }

// Valid reports whether i is a supported interval.
func (i Interval) Valid() bool { return hasOption(Intervals, string(i)) }
