package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aluiziolira/go-scrape-laptops/dialogue"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Runs the interactive price estimation dialogue on the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		predictor, err := newPredictor()
		if err != nil {
			return err
		}
		session := dialogue.NewSession(predictor)
		return converse(cmd, session, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func converse(cmd *cobra.Command, session *dialogue.Session, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()
	reply, _ := session.Handle(ctx, "/start")
	printReply(out, reply)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Prediction failures are already in the reply text.
		reply, _ = session.Handle(ctx, input)
		printReply(out, reply)
	}
	return scanner.Err()
}

func printReply(out io.Writer, reply dialogue.Reply) {
	fmt.Fprintln(out, reply.Text)
	if len(reply.Choices) > 0 {
		fmt.Fprintf(out, "[%s]\n", strings.Join(reply.Choices, " | "))
	}
	fmt.Fprint(out, "> ")
}
