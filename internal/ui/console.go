package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Console feeds lines from r into a Form: each line becomes the input's
// value, then the button is clicked.
type Console struct {
	form     *Form
	inputID  string
	buttonID string
	logger   *slog.Logger
}

// NewConsole creates a Console bound to one input and one button of form.
func NewConsole(form *Form, inputID, buttonID string, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		form:     form,
		inputID:  inputID,
		buttonID: buttonID,
		logger:   logger,
	}
}

// Run reads r until EOF or ctx is done. A blocked read is not interrupted by
// ctx; Run returns after the next line arrives.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if err := c.form.SetValue(c.inputID, line); err != nil {
			return err
		}
		if err := c.form.Click(c.buttonID); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	c.logger.Debug("console input closed")
	return nil
}
