package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"agent-calc/internal/calculator"
	"agent-calc/internal/config"
	"agent-calc/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.Log)
	defer logger.Sync()

	for _, warning := range cfg.Warnings {
		logger.Warnf("%s", warning)
	}
	logger.Debugf("Tick ceiling set to: %d", cfg.MaxTicks)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	calc := calculator.New(cfg.CalculatorOptions(logger.GetLogger())...)
	err := run(ctx, os.Stdin, os.Stdout, calc)
	if errors.Is(err, context.Canceled) {
		logger.Infof("Interrupted, exiting")
		return
	}
	if err != nil {
		logger.Fatalf("Failed to read input: %v", err)
	}
}

// run prompts for expressions until EOF, "exit", "quit" or ctx is done.
// A failed evaluation is reported and the loop carries on.
func run(ctx context.Context, in io.Reader, out io.Writer, calc *calculator.Calculator) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Agent calculator. Type exit or quit to leave.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, "expression> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		result, err := calc.Evaluate(ctx, line)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				fmt.Fprintln(out)
				return err
			}
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "result: %s\n", strconv.FormatFloat(result, 'g', -1, 64))
	}
}
