package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// FormatProviderDown formats an alert for a market-data provider that stopped answering.
func FormatProviderDown(provider, symbol string, err error, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔴 <b>Market data unavailable</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Provider: %s\n", html.EscapeString(provider)))
	b.WriteString(fmt.Sprintf("Probe symbol: %s\n", html.EscapeString(symbol)))
	if err != nil {
		b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(err.Error())))
	}
	b.WriteString("\nDashboard charts are showing placeholders.")
	return b.String()
}

// FormatProviderRecovered formats a recovery notice after an outage of the given length.
func FormatProviderRecovered(provider string, downtime time.Duration, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🟢 <b>Market data restored</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Provider: %s\n", html.EscapeString(provider)))
	b.WriteString(fmt.Sprintf("Downtime: %s\n", downtime.Round(time.Second)))
	return b.String()
}
