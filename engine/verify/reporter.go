package verify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// -----
// Styles
// -----

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// ConsoleReporter prints a verification run line by line. Passing lines and
// the summary go to Out, the failure line goes to Err.
type ConsoleReporter struct {
	Out io.Writer
	Err io.Writer
}

// NewConsoleReporter creates a reporter writing to out and errOut
func NewConsoleReporter(out, errOut io.Writer) *ConsoleReporter {
	return &ConsoleReporter{Out: out, Err: errOut}
}

// Start implements Reporter
func (r *ConsoleReporter) Start() {
	fmt.Fprintln(r.Out, headerStyle.Render("🧪 Running LocalStack Demo App Tests..."))
	fmt.Fprintln(r.Out)
}

// Passed implements Reporter
func (r *ConsoleReporter) Passed(description string) {
	fmt.Fprintln(r.Out, passStyle.Render("✅ "+description))
}

// Failed implements Reporter
func (r *ConsoleReporter) Failed(description string, _ error) {
	fmt.Fprintln(r.Err, errorStyle.Render("❌ Test failed: "+description))
}

// Succeeded implements Reporter
func (r *ConsoleReporter) Succeeded() {
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, successStyle.Render("🎉 All tests passed! The app is ready for deployment."))
}
