package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/tripplanner/pkg/domain"
	"github.com/aretw0/tripplanner/pkg/sanitize"
	"github.com/spf13/cobra"
)

// errRejected makes the process exit non-zero after the message was printed.
var errRejected = errors.New("request rejected")

func userFromFlags(cmd *cobra.Command, limit int) (domain.User, error) {
	var u domain.User
	u.Username, _ = cmd.Flags().GetString("username")
	u.Email, _ = cmd.Flags().GetString("email")
	u.Mobile, _ = cmd.Flags().GetString("mobile")
	err := sanitize.Fields(limit, &u.Username, &u.Email, &u.Mobile)
	return u, err
}

func addUserFlags(cmd *cobra.Command) {
	cmd.Flags().String("username", "", "Username")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("mobile", "", "Mobile number")
	_ = cmd.MarkFlagRequired("username")
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := userFromFlags(cmd, a.Config.MaxInputSize)
		if err != nil {
			return err
		}
		res, err := a.Accounts.Register(cmd.Context(), u)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if !res.OK {
			return errRejected
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check a username, email and mobile against the user table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := userFromFlags(cmd, a.Config.MaxInputSize)
		if err != nil {
			return err
		}
		res, err := a.Accounts.Login(cmd.Context(), u)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if !res.OK {
			return errRejected
		}
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users in registration order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.Accounts.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tEMAIL\tMOBILE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Email, u.Mobile)
		}
		return w.Flush()
	},
}

func init() {
	addUserFlags(registerCmd)
	addUserFlags(loginCmd)
	rootCmd.AddCommand(registerCmd, loginCmd, usersCmd)
}
