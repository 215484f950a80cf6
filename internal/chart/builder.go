// Package chart turns a fetched price series into the three datasets the
// dashboard draws: the price plot with its moving average, the average OHLC
// snapshot and the per-bar earnings. Every function here is pure.
package chart

import (
	"errors"
	"fmt"
	"time"

	"StockDashboard/internal/calculator"
	"StockDashboard/internal/model"

	"github.com/guregu/null/v6"
)

// ErrEmptySeries is returned when an average is requested over zero bars.
var ErrEmptySeries = errors.New("empty price series")

// Candle is one OHLC quadruple of the candlestick trace.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Point is one value of a line or bar trace.
type Point struct {
	Time  time.Time
	Value float64
}

// MAPoint is one moving-average value; Value is invalid until the window fills.
type MAPoint struct {
	Time  time.Time
	Value null.Float
}

// PriceTrace is the primary trace. Candles is set for candlestick plots,
// Line for line plots.
type PriceTrace struct {
	Style           model.PlotStyle
	Name            string
	Candles         []Candle
	Line            []Point
	IncreasingColor string
	DecreasingColor string
	Color           string
}

// Len returns the number of points in the trace.
func (t PriceTrace) Len() int {
	if t.Style == model.PlotCandlestick {
		return len(t.Candles)
	}
	return len(t.Line)
}

// MovingAverage is the rolling mean of Close, aligned with the primary trace.
type MovingAverage struct {
	Window int
	Name   string
	Color  string
	Points []MAPoint
}

// PricePlotData is everything the price chart draws.
type PricePlotData struct {
	Symbol        model.Symbol
	Primary       PriceTrace
	MovingAverage MovingAverage
}

// AverageSnapshot holds the mean of each OHLC field over a whole series.
type AverageSnapshot struct {
	Open  float64
	Close float64
	High  float64
	Low   float64
}

// EarningsSeries holds Close - Open per bar in bar order.
type EarningsSeries []Point

// BuildPricePlot builds the primary trace and its moving average. The window
// is clamped to [model.MinWindow, model.MaxWindow]. An empty series yields an
// empty plot.
func BuildPricePlot(series model.PriceSeries, params model.ChartParams) PricePlotData {
	window := model.ClampWindow(params.Window)
	colors := params.Scheme.Colors

	primary := PriceTrace{Style: params.Style}
	if params.Style == model.PlotCandlestick {
		primary.Name = "Candlestick"
		primary.IncreasingColor = colors[0]
		primary.DecreasingColor = colors[1]
		primary.Candles = make([]Candle, len(series.Bars))
		for i, b := range series.Bars {
			primary.Candles[i] = Candle{Time: b.Time, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
		}
	} else {
		primary.Style = model.PlotLine
		primary.Name = "Closing Price"
		primary.Color = colors[0]
		primary.Line = make([]Point, len(series.Bars))
		for i, b := range series.Bars {
			primary.Line[i] = Point{Time: b.Time, Value: b.Close}
		}
	}

	// window is clamped positive, so RollingSMA cannot fail
	sma, _ := calculator.RollingSMA(series.Closes(), window)
	points := make([]MAPoint, len(series.Bars))
	for i, b := range series.Bars {
		points[i] = MAPoint{Time: b.Time, Value: sma[i]}
	}

	return PricePlotData{
		Symbol:  series.Symbol,
		Primary: primary,
		MovingAverage: MovingAverage{
			Window: window,
			Name:   fmt.Sprintf("%d-Day Moving Average", window),
			Color:  colors[1],
			Points: points,
		},
	}
}

// BuildAverageSnapshot averages each OHLC field. It fails with ErrEmptySeries
// when the series has no bars.
func BuildAverageSnapshot(series model.PriceSeries) (AverageSnapshot, error) {
	n := len(series.Bars)
	if n == 0 {
		return AverageSnapshot{}, ErrEmptySeries
	}
	opens := make([]float64, n)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range series.Bars {
		opens[i], closes[i], highs[i], lows[i] = b.Open, b.Close, b.High, b.Low
	}

	var snap AverageSnapshot
	var err error
	if snap.Open, err = calculator.Mean(opens); err != nil {
		return AverageSnapshot{}, err
	}
	if snap.Close, err = calculator.Mean(closes); err != nil {
		return AverageSnapshot{}, err
	}
	if snap.High, err = calculator.Mean(highs); err != nil {
		return AverageSnapshot{}, err
	}
	if snap.Low, err = calculator.Mean(lows); err != nil {
		return AverageSnapshot{}, err
	}
	return snap, nil
}

// BuildEarningsSeries returns Close - Open for every bar.
func BuildEarningsSeries(series model.PriceSeries) EarningsSeries {
	out := make(EarningsSeries, len(series.Bars))
	for i, b := range series.Bars {
		out[i] = Point{Time: b.Time, Value: b.Close - b.Open}
	}
	return out
}
