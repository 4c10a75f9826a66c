package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the local account session",
	Long:  `Log in, sign up and inspect the account stored on this device.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a local account",
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new local account",
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts on this device",
	RunE:  runUsers,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
	authCmd.AddCommand(usersCmd)

	loginCmd.Flags().String("email", "", "Email address (prompted when omitted)")
	signupCmd.Flags().String("email", "", "Email address (prompted when omitted)")
}

func promptLine(label string) string {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s: ", label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}

func promptPassword(label string) string {
	fmt.Printf("%s: ", label)
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	return string(passwordBytes)
}

func runLogin(cmd *cobra.Command, args []string) error {
	kv, session, _, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	if user := session.CurrentUser(); user != nil {
		fmt.Printf("Already logged in as %s. Run 'lemontask auth logout' first.\n", user.Email)
		return nil
	}

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = promptLine("Email")
	}
	password := promptPassword("Password")

	result := session.Login(email, password)
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	fmt.Printf("✅ Logged in as %s\n", result.User.Email)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	kv, session, _, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = promptLine("Email")
	}

	password := promptPassword("Password")
	confirm := promptPassword("Confirm Password")
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	result := session.Signup(email, password)
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	fmt.Printf("✅ Account created and logged in as %s\n", result.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	kv, session, _, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	if !session.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := session.Logout(); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}

	fmt.Println("✅ Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	kv, session, _, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	user := session.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("%s (id %s)\n", user.Email, user.ID)
	return nil
}

func runUsers(cmd *cobra.Command, args []string) error {
	kv, session, _, err := openSession()
	if err != nil {
		return err
	}
	defer func() {
		_ = kv.Close()
	}()

	users, err := session.Users()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No accounts on this device.")
		return nil
	}

	current := session.CurrentUser()
	for _, u := range users {
		marker := " "
		if current != nil && current.ID == u.ID {
			marker = "*"
		}
		fmt.Printf("%s %-36s  %s\n", marker, u.Email, u.CreatedAt.Format("02/01/2006"))
	}
	return nil
}
