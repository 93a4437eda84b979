package notifier

import (
	"fmt"
	"strings"

	"OptionSentinel/internal/model"
)

// FormatSignalAlert formats one emitted signal into a Telegram message.
func FormatSignalAlert(symbol string, sig model.Signal, spot float64) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("⚡ <b>%s OI Signal</b> | %s\n\n", symbol, sig.Timestamp))
	b.WriteString(fmt.Sprintf("<b>%s</b>\n", sig.Label))
	b.WriteString(fmt.Sprintf("Reason: %s\n", sig.Reason))
	if spot > 0 {
		b.WriteString(fmt.Sprintf("Spot: %.2f\n", spot))
	}

	return b.String()
}
