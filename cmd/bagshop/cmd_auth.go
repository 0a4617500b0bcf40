package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
	registerConfirm  string

	resetPassword string
	resetConfirm  string
)

// loginCmd authenticates and merges the guest cart into the account cart
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your BagShop account",
	Long: `Log in with email and password.

Items in your guest cart are added to your account cart, respecting stock.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the local cart",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a BagShop account",
	Long:  `Create an account. A verification link is sent to the email address.`,
	RunE:  runRegister,
}

// passwordCmd groups the password recovery flow
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Recover a forgotten password",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Email a password reset link",
	Args:  cobra.ExactArgs(1),
	RunE:  runPasswordForgot,
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Set a new password using the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE:  runPasswordReset,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify your email address",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

var verifyResendCmd = &cobra.Command{
	Use:   "resend <email>",
	Short: "Send the verification email again",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerifyResend,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (at least 6 characters)")
	registerCmd.Flags().StringVar(&registerConfirm, "confirm", "", "Repeat the password")

	passwordResetCmd.Flags().StringVar(&resetPassword, "password", "", "New password")
	passwordResetCmd.Flags().StringVar(&resetConfirm, "confirm", "", "Repeat the new password")

	passwordCmd.AddCommand(passwordForgotCmd, passwordResetCmd)
	verifyCmd.AddCommand(verifyResendCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	user, err := a.session.Login(cmd.Context(), loginEmail, loginPassword)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, successStyle.Render("Welcome back, "+user.Name))
	if n := a.cart().Snapshot().Count(); n > 0 {
		fmt.Fprintf(out, "Your cart has %d items.\n", n)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := a.session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	user := a.session.User()
	if user == nil {
		fmt.Fprintln(out, mutedStyle.Render("Not logged in (guest)."))
		return nil
	}
	fmt.Fprintf(out, "%s <%s>\n", titleStyle.Render(user.Name), user.Email)
	fmt.Fprintf(out, "role: %s\n", user.Role)
	if !user.IsVerified {
		fmt.Fprintln(out, mutedStyle.Render("email not verified, see `bagshop verify resend`"))
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	msg, err := a.session.Register(cmd.Context(), registerName, registerEmail, registerPassword, registerConfirm)
	if err != nil {
		return err
	}
	printMessage(cmd, msg, "Account created. Check your inbox to verify your email.")
	return nil
}

func runPasswordForgot(cmd *cobra.Command, args []string) error {
	msg, err := a.session.ForgotPassword(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printMessage(cmd, msg, "If the account exists, a reset link is on its way.")
	return nil
}

func runPasswordReset(cmd *cobra.Command, args []string) error {
	msg, err := a.session.ResetPassword(cmd.Context(), args[0], resetPassword, resetConfirm)
	if err != nil {
		return err
	}
	printMessage(cmd, msg, "Password updated. You can log in now.")
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	msg, err := a.session.VerifyEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printMessage(cmd, msg, "Email verified.")
	return nil
}

func runVerifyResend(cmd *cobra.Command, args []string) error {
	msg, err := a.session.ResendVerification(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printMessage(cmd, msg, "Verification email sent.")
	return nil
}

// printMessage prefers the server's wording when it sent one.
func printMessage(cmd *cobra.Command, msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(msg))
}
