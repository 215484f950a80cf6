package chart

import (
	"fmt"
	"time"

	"StockDashboard/internal/calculator"
	"StockDashboard/internal/model"

	"github.com/guregu/null/v6"
)

// Figure is a Plotly-compatible figure: a list of traces plus a layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is the subset of Plotly trace attributes the dashboard uses.
type Trace struct {
	Type       string       `json:"type"`
	Name       string       `json:"name,omitempty"`
	Mode       string       `json:"mode,omitempty"`
	X          []string     `json:"x,omitempty"`
	Y          []null.Float `json:"y,omitempty"`
	Open       []float64    `json:"open,omitempty"`
	High       []float64    `json:"high,omitempty"`
	Low        []float64    `json:"low,omitempty"`
	Close      []float64    `json:"close,omitempty"`
	Labels     []string     `json:"labels,omitempty"`
	Values     []float64    `json:"values,omitempty"`
	Hole       float64      `json:"hole,omitempty"`
	Line       *Line        `json:"line,omitempty"`
	Marker     *Marker      `json:"marker,omitempty"`
	Increasing *Direction   `json:"increasing,omitempty"`
	Decreasing *Direction   `json:"decreasing,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
}

type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

type Direction struct {
	Line Line `json:"line"`
}

type Text struct {
	Text string `json:"text"`
}

type Axis struct {
	Title   *Text     `json:"title,omitempty"`
	Range   []float64 `json:"range,omitempty"`
	Visible *bool     `json:"visible,omitempty"`
}

type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type Annotation struct {
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Font      *Font   `json:"font,omitempty"`
}

type Layout struct {
	Title        Text         `json:"title"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	PlotBgColor  string       `json:"plot_bgcolor"`
	PaperBgColor string       `json:"paper_bgcolor"`
	Font         Font         `json:"font"`
	Annotations  []Annotation `json:"annotations,omitempty"`
}

const (
	background = "#000000"
	foreground = "#ffffff"
	dateLayout = "2006-01-02"
)

// PieColors are the fixed slice colors of the average snapshot chart.
var PieColors = []string{"#00adb5", "#ff5722", "#ffa726", "#4caf50"}

func darkLayout(title string) Layout {
	return Layout{
		Title:        Text{Text: title},
		PlotBgColor:  background,
		PaperBgColor: background,
		Font:         Font{Color: foreground},
	}
}

func formatTime(t time.Time) string { return t.Format(dateLayout) }

// PriceFigure renders the primary trace and moving average of a price plot.
// bars is only used to fix the y-axis range and may be empty.
func PriceFigure(plot PricePlotData, bars []model.OHLCV) Figure {
	var primary Trace
	switch plot.Primary.Style {
	case model.PlotCandlestick:
		n := len(plot.Primary.Candles)
		primary = Trace{
			Type:       "candlestick",
			Name:       plot.Primary.Name,
			X:          make([]string, n),
			Open:       make([]float64, n),
			High:       make([]float64, n),
			Low:        make([]float64, n),
			Close:      make([]float64, n),
			Increasing: &Direction{Line: Line{Color: plot.Primary.IncreasingColor}},
			Decreasing: &Direction{Line: Line{Color: plot.Primary.DecreasingColor}},
		}
		for i, c := range plot.Primary.Candles {
			primary.X[i] = formatTime(c.Time)
			primary.Open[i], primary.High[i], primary.Low[i], primary.Close[i] = c.Open, c.High, c.Low, c.Close
		}
	default:
		n := len(plot.Primary.Line)
		primary = Trace{
			Type: "scatter",
			Mode: "lines",
			Name: plot.Primary.Name,
			X:    make([]string, n),
			Y:    make([]null.Float, n),
			Line: &Line{Color: plot.Primary.Color},
		}
		for i, p := range plot.Primary.Line {
			primary.X[i] = formatTime(p.Time)
			primary.Y[i] = null.FloatFrom(p.Value)
		}
	}

	ma := plot.MovingAverage
	maTrace := Trace{
		Type: "scatter",
		Mode: "lines",
		Name: ma.Name,
		X:    make([]string, len(ma.Points)),
		Y:    make([]null.Float, len(ma.Points)),
		Line: &Line{Color: ma.Color},
	}
	for i, p := range ma.Points {
		maTrace.X[i] = formatTime(p.Time)
		maTrace.Y[i] = p.Value
	}

	layout := darkLayout(PriceTitle(plot.Symbol))
	layout.XAxis = &Axis{Title: &Text{Text: "Date"}}
	layout.YAxis = &Axis{Title: &Text{Text: "Price"}}
	if high, low, err := calculator.CalculatePriceRange(bars); err == nil {
		lo, hi := calculator.PaddedRange(high, low, 0.02)
		layout.YAxis.Range = []float64{lo, hi}
	}

	return Figure{Data: []Trace{primary, maTrace}, Layout: layout}
}

// AverageFigure renders the average snapshot as a donut chart.
func AverageFigure(symbol model.Symbol, snap AverageSnapshot) Figure {
	return Figure{
		Data: []Trace{{
			Type:   "pie",
			Labels: []string{"Open", "Close", "High", "Low"},
			Values: []float64{snap.Open, snap.Close, snap.High, snap.Low},
			Hole:   0.3,
			Marker: &Marker{Colors: PieColors},
		}},
		Layout: darkLayout(AverageTitle(symbol)),
	}
}

// EarningsFigure renders the earnings series as bars in the given color.
func EarningsFigure(symbol model.Symbol, earnings EarningsSeries, color string) Figure {
	bar := Trace{
		Type:   "bar",
		X:      make([]string, len(earnings)),
		Y:      make([]null.Float, len(earnings)),
		Marker: &Marker{Color: color},
	}
	for i, p := range earnings {
		bar.X[i] = formatTime(p.Time)
		bar.Y[i] = null.FloatFrom(p.Value)
	}

	layout := darkLayout(EarningsTitle(symbol))
	layout.XAxis = &Axis{Title: &Text{Text: "Date"}}
	layout.YAxis = &Axis{Title: &Text{Text: "Earnings"}}
	return Figure{Data: []Trace{bar}, Layout: layout}
}

// Placeholder is an empty figure that shows message in place of a chart
// whose data could not be built.
func Placeholder(title, message string) Figure {
	hidden := false
	layout := darkLayout(title)
	layout.XAxis = &Axis{Visible: &hidden}
	layout.YAxis = &Axis{Visible: &hidden}
	layout.Annotations = []Annotation{{
		Text:      message,
		ShowArrow: false,
		XRef:      "paper",
		YRef:      "paper",
		X:         0.5,
		Y:         0.5,
		Font:      &Font{Color: foreground, Size: 16},
	}}
	return Figure{Data: []Trace{}, Layout: layout}
}

// PriceTitle, AverageTitle and EarningsTitle name the three dashboard figures.
func PriceTitle(s model.Symbol) string    { return fmt.Sprintf("%s Stock Price Analysis", s) }
func AverageTitle(s model.Symbol) string  { return fmt.Sprintf("%s Average Stock Values", s) }
func EarningsTitle(s model.Symbol) string { return fmt.Sprintf("Earnings Comparison for %s", s) }
