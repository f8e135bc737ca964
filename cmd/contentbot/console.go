package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	contentbot "github.com/goliatone/go-content-bot"
	"github.com/goliatone/go-content-bot/internal/presentation"
	"github.com/goliatone/go-content-bot/pkg/interfaces"
)

const (
	photoCommand = "/photo"
	menuCommand  = "/menu"
	quitCommand  = "/quit"
)

type consoleOptions struct {
	operatorID int64
	chatID     int64
	scopes     []string
}

func newConsoleCommand(a *app) *cobra.Command {
	opts := consoleOptions{}
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Drive the flows interactively from the terminal",
		Long: "Type a control number to press it, free text to answer a prompt, " +
			photoCommand + " <file-id> [caption] to send an image, " +
			menuCommand + " to return to the main menu and " + quitCommand + " to exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runConsole(ctx, a.cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64Var(&opts.operatorID, "operator", 0, "operator id (defaults to the first configured admin)")
	cmd.Flags().Int64Var(&opts.chatID, "chat", 0, "chat id (defaults to the operator id)")
	cmd.Flags().StringSliceVar(&opts.scopes, "scopes", []string{"general"}, "scopes offered for scoped content types")
	return cmd
}

func runConsole(ctx context.Context, cfg contentbot.Config, opts consoleOptions, in io.Reader, out io.Writer) error {
	operator := opts.operatorID
	if operator == 0 && len(cfg.Operators.Admins) > 0 {
		operator = cfg.Operators.Admins[0]
	}
	if operator == 0 {
		return fmt.Errorf("console: --operator is required when no admins are configured")
	}
	chat := opts.chatID
	if chat == 0 {
		chat = operator
	}

	presenter := presentation.NewConsolePresenter(out, presentation.DefaultLabels())
	module, err := contentbot.New(cfg, contentbot.WithPresenter(presenter))
	if err != nil {
		return err
	}
	defer module.Close()

	for _, menu := range buildMenus(module.Policies(), opts.scopes) {
		if err := module.Router().RegisterMenu(menu); err != nil {
			return err
		}
	}
	if _, err := module.Seed(ctx); err != nil {
		return err
	}

	ref := interfaces.ChatRef{OperatorID: operator, ChatID: chat}
	if err := module.Router().Show(ctx, ref, mainMenu); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == quitCommand {
			return nil
		}
		if line == menuCommand {
			line = ""
		}
		ev := parseLine(presenter, line)
		ev.OperatorID, ev.ChatID = operator, chat
		if err := module.Route(ctx, ev); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// parseLine maps one console line onto a transport event. An empty line
// stands for the main menu.
func parseLine(presenter *presentation.ConsolePresenter, line string) contentbot.Event {
	if line == "" {
		return contentbot.Event{Callback: mainMenu}
	}
	if rest, ok := strings.CutPrefix(line, photoCommand+" "); ok {
		fileID, caption, _ := strings.Cut(strings.TrimSpace(rest), " ")
		return contentbot.Event{Media: &interfaces.Media{FileID: fileID, Caption: strings.TrimSpace(caption)}}
	}
	if callback, ok := presenter.Resolve(line); ok {
		return contentbot.Event{Callback: callback}
	}
	return contentbot.Event{Text: line}
}
