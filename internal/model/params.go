package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Moving-average window bounds.
const (
	MinWindow = 1
	MaxWindow = 30
)

// DateLayout is the wire format of start and end dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidWindow is returned when a moving-average window is outside [MinWindow, MaxWindow].
	ErrInvalidWindow = errors.New("moving average window out of range")
	// ErrInvalidParam is the parent of every other parameter validation failure.
	ErrInvalidParam = errors.New("invalid chart parameter")
)

// ParamError reports which request field failed validation.
type ParamError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ParamError) Unwrap() error { return e.Err }

// ColorScheme is a validated pair of named colors. Colors[0] marks rising
// candles and the line trace, Colors[1] marks falling candles and the moving average.
type ColorScheme struct {
	Name   string
	Colors [2]string
}

// ParseColorScheme validates a "<color0>_<color1>" scheme value.
func ParseColorScheme(v string) (ColorScheme, error) {
	if !hasOption(ColorSchemes, v) {
		return ColorScheme{}, fmt.Errorf("unknown color scheme %q", v)
	}
	parts := strings.Split(v, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ColorScheme{}, fmt.Errorf("color scheme %q must name exactly two colors", v)
	}
	return ColorScheme{Name: v, Colors: [2]string{parts[0], parts[1]}}, nil
}

// ChartParams is the validated set of dashboard inputs.
type ChartParams struct {
	Symbol   Symbol
	Start    time.Time
	End      time.Time
	Style    PlotStyle
	Scheme   ColorScheme
	Window   int
	Interval Interval
}

// RawParams carries dashboard inputs as they arrive from the page.
type RawParams struct {
	Symbol   string `validate:"required,symbol"`
	Start    string `validate:"required,datetime=2006-01-02"`
	End      string `validate:"required,datetime=2006-01-02"`
	Style    string `validate:"required,plotstyle"`
	Scheme   string `validate:"required,scheme"`
	Window   int    `validate:"min=1,max=30"`
	Interval string `validate:"required,interval"`
}

// ParamLimits bounds the selectable date range. Zero values disable a bound.
type ParamLimits struct {
	MinDate time.Time
	MaxDate time.Time
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	tags := map[string]validator.Func{
		"symbol": func(fl validator.FieldLevel) bool {
			return Symbol(fl.Field().String()).Valid()
		},
		"plotstyle": func(fl validator.FieldLevel) bool {
			return PlotStyle(fl.Field().String()).Valid()
		},
		"interval": func(fl validator.FieldLevel) bool {
			return Interval(fl.Field().String()).Valid()
		},
		"scheme": func(fl validator.FieldLevel) bool {
			_, err := ParseColorScheme(fl.Field().String())
			return err == nil
		},
	}
	for tag, fn := range tags {
		mustRegister(v, tag, fn)
	}
	return v
}

// mustRegister panics if tag cannot be registered.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// ParseChartParams validates raw inputs once and converts them into typed parameters.
func ParseChartParams(raw RawParams, limits ParamLimits) (ChartParams, error) {
	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ChartParams{}, translate(verrs[0])
		}
		return ChartParams{}, &ParamError{Field: "params", Reason: err.Error(), Err: ErrInvalidParam}
	}

	start, _ := time.Parse(DateLayout, raw.Start)
	end, _ := time.Parse(DateLayout, raw.End)
	if start.After(end) {
		return ChartParams{}, &ParamError{Field: "start", Reason: "start date is after end date", Err: ErrInvalidParam}
	}
	if !limits.MinDate.IsZero() && start.Before(limits.MinDate) {
		return ChartParams{}, &ParamError{
			Field:  "start",
			Reason: "start date is before " + limits.MinDate.Format(DateLayout),
			Err:    ErrInvalidParam,
		}
	}
	if !limits.MaxDate.IsZero() && end.After(limits.MaxDate) {
		return ChartParams{}, &ParamError{
			Field:  "end",
			Reason: "end date is after " + limits.MaxDate.Format(DateLayout),
			Err:    ErrInvalidParam,
		}
	}

	scheme, _ := ParseColorScheme(raw.Scheme)
	return ChartParams{
		Symbol:   Symbol(raw.Symbol),
		Start:    start,
		End:      end,
		Style:    PlotStyle(raw.Style),
		Scheme:   scheme,
		Window:   raw.Window,
		Interval: Interval(raw.Interval),
	}, nil
}

func translate(fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())
	if fe.Field() == "Window" {
		return &ParamError{
			Field:  field,
			Reason: fmt.Sprintf("must be between %d and %d", MinWindow, MaxWindow),
			Err:    ErrInvalidWindow,
		}
	}
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "datetime":
		reason = "must be a date in YYYY-MM-DD form"
	default:
		reason = fmt.Sprintf("unsupported value %q", fe.Value())
	}
	return &ParamError{Field: field, Reason: reason, Err: ErrInvalidParam}
}

// ClampWindow forces a window length into [MinWindow, MaxWindow].
func ClampWindow(w int) int {
	if w < MinWindow {
		return MinWindow
	}
	if w > MaxWindow {
		return MaxWindow
	}
	return w
}
