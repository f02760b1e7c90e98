package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// ShowProgress runs fn behind a spinner when stderr is a terminal
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo("%s", message)
		return fn()
	}
	return showProgressSimple(ctx, message, fn)
}

// showProgressSimple uses a simple text-based spinner
func showProgressSimple(ctx context.Context, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(os.Stderr, "\r%s %s", progressStyle.Render(char), message)
				i++
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		close(stop)
		<-spinnerDone
		if err != nil {
			fmt.Fprintf(os.Stderr, "\r%s %s\n", errorStyle.Render("✗"), message)
			return err
		}
		fmt.Fprintf(os.Stderr, "\r%s %s\n", successStyle.Render("✓"), message)
		return nil
	case <-ctx.Done():
		close(stop)
		<-spinnerDone
		return ctx.Err()
	}
}

// StepPrinter renders per-episode progress lines from orchestrator transitions
type StepPrinter struct {
	w     io.Writer
	color bool
}

// NewStepPrinter creates a printer writing to w
func NewStepPrinter(w io.Writer) *StepPrinter {
	return &StepPrinter{w: w, color: isTerminal(w)}
}

// Observe is an orchestrator observer
func (p *StepPrinter) Observe(t Transition) {
	switch t.To {
	case StateDiscovering:
		p.line(progressStyle, "•", "Discovering playlist pages")
	case StateNavigating:
		if t.Ref != nil {
			p.line(progressStyle, "•", fmt.Sprintf("[%d/%d] %s", t.Index+1, t.Total, t.Ref.Name))
		}
	case StateIndexing:
		p.line(dimStyle, "•", "Writing index")
	case StateFailed:
		p.line(errorStyle, "✗", "Run failed")
	}
}

func (p *StepPrinter) line(style lipgloss.Style, mark, msg string) {
	if p.color {
		fmt.Fprintf(p.w, "%s %s\n", style.Render(mark), msg)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", mark, msg)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return false
}

// PrintSuccess prints a success message to w
func PrintSuccess(w io.Writer, message string) {
	printStyled(w, successStyle, "✓", message)
}

// PrintWarning prints a warning message to w
func PrintWarning(w io.Writer, message string) {
	printStyled(w, warningStyle, "!", message)
}

// PrintError prints an error message to w
func PrintError(w io.Writer, message string) {
	printStyled(w, errorStyle, "✗", message)
}

func printStyled(w io.Writer, style lipgloss.Style, mark, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", style.Render(mark), message)
	} else {
		fmt.Fprintln(w, message)
	}
}
