package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter is a line-oriented text console.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Writer() io.Writer { return p.out }

func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Line prints prompt and returns the next input line, trimmed. It returns
// io.EOF once the input is exhausted.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// WaitEnter prints prompt and waits for any line.
func (p *Prompter) WaitEnter(prompt string) error {
	_, err := p.Line(prompt)
	return err
}

// Int asks until the answer is an integer accepted by check. check returns
// the message to print for a rejected value, or "" to accept it. A nil check
// accepts any integer.
func (p *Prompter) Int(prompt string, check func(int64) string) (int64, error) {
	for {
		line, err := p.Line(prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			p.Printf("%q is not a whole number. Please try again.\n", line)
			continue
		}
		if check != nil {
			if msg := check(v); msg != "" {
				p.Println(msg)
				continue
			}
		}
		return v, nil
	}
}

// OptionalInt is Int that also accepts an empty answer, reported as ok=false.
func (p *Prompter) OptionalInt(prompt string, check func(int64) string) (int64, bool, error) {
	for {
		line, err := p.Line(prompt)
		if err != nil {
			return 0, false, err
		}
		if line == "" {
			return 0, false, nil
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			p.Printf("%q is not a whole number. Please try again.\n", line)
			continue
		}
		if check != nil {
			if msg := check(v); msg != "" {
				p.Println(msg)
				continue
			}
		}
		return v, true, nil
	}
}

// YesNo asks until the answer is y/yes or n/no, case-insensitively.
func (p *Prompter) YesNo(prompt string) (bool, error) {
	for {
		line, err := p.Line(prompt + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.Println("Please answer y or n.")
	}
}

// NonNegative rejects values below zero.
func NonNegative(v int64) string {
	if v < 0 {
		return "Please enter a number of 0 or more."
	}
	return ""
}
