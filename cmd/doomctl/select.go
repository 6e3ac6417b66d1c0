package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"doomctl/internal/loadout"
)

// console is the interactive surface. Off a terminal every prompt degrades to
// its non-interactive default so the launcher stays scriptable.
type console struct {
	in          *bufio.Reader
	interactive bool
}

func newConsole() *console {
	return &console{
		in:          bufio.NewReader(os.Stdin),
		interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
	}
}

func (c *console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm gates an action behind a keypress when running on a terminal.
func (c *console) confirm(prompt string) error {
	if !c.interactive {
		return nil
	}
	fmt.Print(prompt + " (enter to continue, n to abort) ")
	line, err := c.readLine()
	if err != nil {
		return err
	}
	switch strings.ToLower(line) {
	case "", "y", "yes":
		return nil
	default:
		return errors.New("aborted")
	}
}

// choose disambiguates a multi-candidate resolution. Off a terminal it takes
// the best-ranked candidate.
func (c *console) choose(term string, options []string) ([]string, error) {
	if !c.interactive {
		return loadout.FirstChoice(term, options)
	}

	rows := make([][]string, 0, len(options))
	for i, option := range options {
		rows = append(rows, []string{strconv.Itoa(i + 1), option})
	}
	fmt.Printf("Several matches for %q:\n%s\n", term, renderTable(
		[]string{"#", "Candidate"},
		rows,
		[]columnAlignment{alignRight, alignLeft},
	))
	fmt.Print("Pick one or more (numbers, enter for the best match): ")

	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if line == "" {
		return options[:1], nil
	}

	var chosen []string
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(options) {
			return nil, fmt.Errorf("invalid selection %q", field)
		}
		chosen = append(chosen, options[n-1])
	}
	if len(chosen) == 0 {
		return options[:1], nil
	}
	return chosen, nil
}

// promptDemoNames collects additional demo names during a render interrupt.
func (c *console) promptDemoNames() (string, error) {
	fmt.Print("\nAdd demos to the queue (space-separated names, enter for none): ")
	return c.readLine()
}
