package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// Prompter reads interactive input.
type Prompter interface {
	// Line prints prompt and reads one line without the trailing newline.
	Line(prompt string) (string, error)
	// Password prints prompt and reads one line without echo when possible.
	Password(prompt string) (string, error)
}

// LineReader is a Prompter with history, used by the shell.
type LineReader interface {
	Prompter
	AppendHistory(line string)
	Close() error
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// streamPrompter reads from in, hiding passwords when in is a terminal.
type streamPrompter struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

func newStreamPrompter(in io.Reader, out io.Writer) *streamPrompter {
	p := &streamPrompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

func (p *streamPrompter) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *streamPrompter) Password(prompt string) (string, error) {
	if !p.tty {
		return p.Line(prompt)
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// linerReader adapts liner to LineReader.
type linerReader struct {
	state *liner.State
}

func newLinerReader() LineReader {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	return &linerReader{state: st}
}

func (l *linerReader) Line(prompt string) (string, error) { return l.state.Prompt(prompt) }

func (l *linerReader) Password(prompt string) (string, error) { return l.state.PasswordPrompt(prompt) }

func (l *linerReader) AppendHistory(line string) { l.state.AppendHistory(line) }

func (l *linerReader) Close() error { return l.state.Close() }

// isAbort reports whether err ends interactive input.
func isAbort(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}
