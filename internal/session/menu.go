package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Role is one side of an example: the transmitter or the receiver loop.
type Role func(ctx context.Context) error

func lineReader(in io.Reader) *bufio.Reader {
	if br, ok := in.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(in)
}

// readLine returns the next line without its terminator. io.EOF is only
// returned when nothing was read.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Menu asks which role to play until the user quits. Only the first
// character of a line counts: T transmits, R receives, Q quits, case
// insensitive. Empty lines show the prompt again. Menu returns nil on Q or
// end of input and the error of a role otherwise.
//
// Pass the same *bufio.Reader used by AskNode so no buffered input is lost.
func Menu(ctx context.Context, in io.Reader, out io.Writer, tx, rx Role) error {
	br := lineReader(in)
	for {
		fmt.Fprint(out, "*** PRESS 'T' to begin transmitting to the other node\n")
		fmt.Fprint(out, "*** PRESS 'R' to begin receiving from the other node\n")
		fmt.Fprint(out, "*** PRESS 'Q' to exit\n")

		line, err := readLine(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading role: %w", err)
		}
		if line == "" {
			continue
		}

		switch c := line[0]; c {
		case 'T', 't':
			err = tx(ctx)
		case 'R', 'r':
			err = rx(ctx)
		case 'Q', 'q':
			return nil
		default:
			fmt.Fprintf(out, "%c is an invalid input. Please try again.\n", c)
		}
		if err != nil {
			return err
		}
	}
}

// AskNode prompts for the radio number. Anything but a line starting with
// '1' selects node 0.
func AskNode(in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, "Which radio is this? Enter '0' or '1'. Defaults to '0' ")
	line, err := readLine(lineReader(in))
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("reading node: %w", err)
	}
	if strings.HasPrefix(line, "1") {
		return 1, nil
	}
	return 0, nil
}
