// Package cleanup provides ascii reporter
package cleanup

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	cyan       = "\033[38;2;86;182;194m"  // One Dark Cyan: #56B6C2
	cyanBright = "\033[38;2;97;228;240m"  // Brighter Cyan: #61E4F0
	dimCyan    = "\033[38;2;47;91;102m"   // Dim Cyan: #2F5B66
	grey       = "\033[38;2;110;118;129m" // Brighter Grey: #6E7681
	dimGrey    = "\033[38;2;75;82;99m"    // Darker Grey: #4B5263
	success    = "\033[38;2;62;130;144m"  // Dim Cyan: #3E8290
	errorRed   = "\033[38;2;224;108;117m" // One Dark Red: #E06C75
	white      = "\033[38;2;171;178;191m" // One Dark Foreground: #ABB2BF
	reset      = "\033[0m"
	bold       = "\033[1m"
)

// Snapshot is the state the reporter prints.
type Snapshot struct {
	LiveSessions   int
	LiveCharts     int
	OldestActivity time.Time
	HasSessions    bool
}

type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

func (r *Reporter) LogStage(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, grey, formattedMsg, reset)
}

func (r *Reporter) LogSuccess(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s%s✦ %s%s%s\n", success, bold, white, formattedMsg, reset)
}

func (r *Reporter) LogInfo(message string, args ...any) {
	formattedMsg := fmt.Sprintf(message, args...)
	fmt.Fprintf(r.out, "%s▶ %s%s%s\n", dimGrey, grey, formattedMsg, reset)
}

func (r *Reporter) GenerateReport(snap Snapshot) string {
	var report strings.Builder
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 MST")

	report.WriteString(fmt.Sprintf("%s%s▓ %s | Sessions%s\n", bold, dimCyan, timestamp, reset))

	if snap.HasSessions {
		report.WriteString(fmt.Sprintf("%s✦ %slive: %s%d%s  %scharts: %s%d%s  %sidlest: %s%s%s\n",
			success, grey, cyanBright, snap.LiveSessions, reset,
			grey, cyanBright, snap.LiveCharts, reset,
			grey, cyan, time.Since(snap.OldestActivity).Round(time.Second), reset))
	} else {
		report.WriteString(fmt.Sprintf("%s○ %slive: %sNONE%s\n", dimGrey, grey, errorRed, reset))
	}
	return report.String()
}

func (r *Reporter) Print(snap Snapshot) {
	fmt.Fprint(r.out, r.GenerateReport(snap))
}
