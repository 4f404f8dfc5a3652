package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"pizza-store/internal/domain"
)

// interactiveLines feeds keyboard input into the order placement loop. The
// workflow engine validates each item before a quantity is ever asked for.
type interactiveLines struct {
	in  *bufio.Reader
	out io.Writer
}

func (s *interactiveLines) NextItem() (string, bool, error) {
	for {
		name, err := readLine(s.in, s.out, "Item name ('done' to finish): ")
		if err != nil {
			// input broke mid-order; the engine rolls everything back
			return "", false, err
		}
		if name == "done" {
			return "", false, nil
		}
		if name == "" {
			fmt.Fprintln(s.out, "Enter an item name, or 'done' to finish.")
			continue
		}
		return name, true, nil
	}
}

func (s *interactiveLines) Quantity(item domain.Item) (int, bool) {
	prompt := fmt.Sprintf("Quantity of %s ($%s each): ", item.ItemName, item.Price.StringFixed(2))
	qty, err := readPositiveInt(s.in, s.out, prompt)
	if err != nil {
		return 0, false
	}
	return qty, true
}

func (s *interactiveLines) Reject(name string, reason error) {
	switch {
	case errors.Is(reason, domain.ErrItemNotFound):
		fmt.Fprintf(s.out, "No item named %q on the menu, try again.\n", name)
	default:
		fmt.Fprintf(s.out, "%s: %v\n", name, reason)
	}
}
