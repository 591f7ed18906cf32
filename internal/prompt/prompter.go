package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter reads one line per question and re-asks until the answer is valid.
type Prompter struct {
	ctx   context.Context
	lines <-chan lineResult
	out   io.Writer
}

type lineResult struct {
	text string
	err  error
}

// New returns a Prompter reading from r and writing prompts to w. Input is
// read on a separate goroutine so a blocked read does not outlive ctx.
func New(ctx context.Context, r io.Reader, w io.Writer) *Prompter {
	lines := make(chan lineResult)
	go readLines(ctx, r, lines)
	return &Prompter{ctx: ctx, lines: lines, out: w}
}

func readLines(ctx context.Context, r io.Reader, lines chan<- lineResult) {
	defer close(lines)
	send := func(res lineResult) bool {
		select {
		case lines <- res:
			return true
		case <-ctx.Done():
			return false
		}
	}

	br := bufio.NewReader(r)
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			if !send(lineResult{text: strings.TrimRight(text, "\r\n")}) {
				return
			}
		}
		if err != nil {
			send(lineResult{err: err})
			return
		}
	}
}

// Line prints label and returns the next input line without its newline.
// It returns io.EOF once input is exhausted, or the context error if the
// context ends first.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	select {
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	case <-p.ctx.Done():
		return "", p.ctx.Err()
	}
}

// Int asks until the answer is an integer.
func (p *Prompter) Int(label string) (int, error) {
	for {
		line, err := p.Line(label)
		if err != nil {
			return 0, err
		}
		n, err := ParseInt(line)
		if err == nil {
			return n, nil
		}
		p.reject(err)
	}
}

// NonEmpty asks until the answer has at least one non-space character.
func (p *Prompter) NonEmpty(label string) (string, error) {
	for {
		line, err := p.Line(label)
		if err != nil {
			return "", err
		}
		s, err := ParseNonEmpty(line)
		if err == nil {
			return s, nil
		}
		p.reject(err)
	}
}

// OptionalDate asks until the answer is blank or a YYYY-MM-DD date.
func (p *Prompter) OptionalDate(label string) (*string, error) {
	for {
		line, err := p.Line(label)
		if err != nil {
			return nil, err
		}
		d, err := ParseOptionalDate(line)
		if err == nil {
			return d, nil
		}
		p.reject(err)
	}
}

// Confirm asks a yes/no question. Only y or yes (any case) count as yes.
func (p *Prompter) Confirm(label string) (bool, error) {
	line, err := p.Line(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) reject(err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(p.out, ve.Reason)
		return
	}
	fmt.Fprintln(p.out, err)
}
