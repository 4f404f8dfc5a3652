package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// readLine prompts and returns one trimmed input line. io.EOF surfaces to
// the caller so a closed stdin unwinds the session cleanly.
func readLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readChoice keeps prompting until the user enters an integer.
func readChoice(in *bufio.Reader, out io.Writer) (int, error) {
	for {
		line, err := readLine(in, out, "Please make your choice: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Your input is invalid!")
			continue
		}
		return n, nil
	}
}

// readInt keeps prompting until the user enters an integer.
func readInt(in *bufio.Reader, out io.Writer, prompt string) (int, error) {
	for {
		line, err := readLine(in, out, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "Please enter a whole number.")
			continue
		}
		return n, nil
	}
}

// readPositiveInt keeps prompting until the user enters an integer greater
// than zero. "abc", "0" and negatives are all re-prompted, never coerced.
func readPositiveInt(in *bufio.Reader, out io.Writer, prompt string) (int, error) {
	for {
		n, err := readInt(in, out, prompt)
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			fmt.Fprintln(out, "Please enter a positive whole number.")
			continue
		}
		return n, nil
	}
}

// readMoney keeps prompting until the user enters a positive decimal amount.
func readMoney(in *bufio.Reader, out io.Writer, prompt string) (decimal.Decimal, error) {
	for {
		line, err := readLine(in, out, prompt)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(line)
		if err != nil || !d.IsPositive() {
			fmt.Fprintln(out, "Please enter a positive amount, e.g. 12.50.")
			continue
		}
		return d, nil
	}
}

// readOptionalMoney accepts an empty line as "no limit".
func readOptionalMoney(in *bufio.Reader, out io.Writer, prompt string) (*decimal.Decimal, error) {
	for {
		line, err := readLine(in, out, prompt)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(line)
		if err != nil || !d.IsPositive() {
			fmt.Fprintln(out, "Please enter a positive amount or leave empty.")
			continue
		}
		return &d, nil
	}
}
