package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramesh9813/bagshop-client-sub000/internal/chat"
	"github.com/ramesh9813/bagshop-client-sub000/internal/client"
)

var (
	chatWidth int

	inquiryName    string
	inquiryEmail   string
	inquirySubject string
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the shop assistant",
	Long: `Ask the shop assistant a question.

With a message argument one reply is printed. Without one, lines are read from
stdin and the conversation continues until EOF or "exit".`,
	RunE: runChat,
}

var inquiryCmd = &cobra.Command{
	Use:   "inquiry <message>",
	Short: "Send a message to the shop team",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInquiry,
}

func init() {
	chatCmd.Flags().IntVar(&chatWidth, "width", 80, "Wrap replies at this width")

	inquiryCmd.Flags().StringVar(&inquiryName, "name", "", "Your name (default: logged-in account)")
	inquiryCmd.Flags().StringVar(&inquiryEmail, "email", "", "Reply address (default: logged-in account)")
	inquiryCmd.Flags().StringVar(&inquirySubject, "subject", "General inquiry", "Subject line")
}

func runChat(cmd *cobra.Command, args []string) error {
	renderer := chat.NewTerminalRenderer(chatWidth)
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		_, err := ask(cmd, renderer, out, strings.Join(args, " "), nil)
		return err
	}

	var history []client.ChatMessage
	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, mutedStyle.Render("> "))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if line != "" {
			reply, err := ask(cmd, renderer, out, line, history)
			if err != nil {
				return err
			}
			history = append(history,
				client.ChatMessage{Role: "user", Content: line},
				client.ChatMessage{Role: "assistant", Content: reply})
		}
		fmt.Fprint(out, mutedStyle.Render("> "))
	}
	return scanner.Err()
}

func ask(cmd *cobra.Command, renderer *chat.TerminalRenderer, out io.Writer, message string, history []client.ChatMessage) (string, error) {
	reply, err := a.client.Chat(cmd.Context(), message, history)
	if err != nil {
		return "", err
	}
	rendered, err := renderer.Render(reply)
	if err != nil {
		a.log.Debug("chat reply shown unrendered", zap.Error(err))
	}
	fmt.Fprintln(out, rendered)
	return reply, nil
}

func runInquiry(cmd *cobra.Command, args []string) error {
	in := client.InquiryInput{
		Name:    inquiryName,
		Email:   inquiryEmail,
		Subject: inquirySubject,
		Message: strings.Join(args, " "),
	}
	if u := a.session.User(); u != nil {
		if in.Name == "" {
			in.Name = u.Name
		}
		if in.Email == "" {
			in.Email = u.Email
		}
	}
	if in.Name == "" || in.Email == "" {
		return fmt.Errorf("--name and --email are required when not logged in")
	}

	if _, err := a.client.SubmitInquiry(cmd.Context(), in); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Thanks, we will get back to you at "+in.Email))
	return nil
}
