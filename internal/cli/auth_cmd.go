package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and161185/jobboard/internal/errs"
	"github.com/and161185/jobboard/internal/model"
	"github.com/and161185/jobboard/internal/service"
)

func (r *runtime) newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("email", "", "email address")
	cmd.RunE = r.wrap(r.runRegister)
	return cmd
}

func (r *runtime) runRegister(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	var err error
	if name == "" {
		if name, err = r.prompter.Line("Full name: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = r.prompter.Line("Email: "); err != nil {
			return err
		}
	}
	pw, err := r.prompter.Password("Password: ")
	if err != nil {
		return err
	}
	if pw != "" {
		fmt.Fprintln(out, renderMeter(pw))
	}
	confirm, err := r.prompter.Password("Confirm password: ")
	if err != nil {
		return err
	}

	form := service.RegistrationForm{Name: name, Email: email, Password: pw, ConfirmPassword: confirm}
	if err := service.ValidateRegistration(form); err != nil {
		return err
	}
	u, err := r.app.Auth.Register(ctx, service.RegisterInput{Name: name, Email: email, Password: pw})
	if err != nil {
		return err
	}
	if err := r.signIn(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(out, "Account created. Welcome, %s!\n", u.Name)
	return nil
}

func (r *runtime) newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("email", "", "email address")
	cmd.RunE = r.wrap(r.runLogin)
	return cmd
}

func (r *runtime) runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	email, _ := cmd.Flags().GetString("email")
	var err error
	if email == "" {
		if email, err = r.prompter.Line("Email: "); err != nil {
			return err
		}
	}
	pw, err := r.prompter.Password("Password: ")
	if err != nil {
		return err
	}

	if err := service.ValidateLogin(service.LoginForm{Email: email, Password: pw}); err != nil {
		return err
	}
	u, err := r.app.Auth.Authenticate(ctx, email, pw)
	if err != nil {
		var ce *errs.CredentialsError
		if errors.As(err, &ce) && !ce.Locked {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d attempts remaining before the account is locked.\n", ce.AttemptsLeft)
		}
		return err
	}
	if err := r.signIn(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(out, "Welcome back, %s!\n", u.Name)
	return nil
}

// signIn stores u as the current user and starts idle tracking.
func (r *runtime) signIn(ctx context.Context, u model.User) error {
	if err := r.app.Auth.SetCurrentUser(ctx, u); err != nil {
		return err
	}
	r.track(ctx)
	return nil
}

func (r *runtime) newLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.wrap(func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if _, ok := r.app.Auth.CurrentUser(ctx); !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		r.app.Session.End(ctx)
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	})
	return cmd
}

func (r *runtime) newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and the remaining session time",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = r.wrap(func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		u, err := r.requireUser(ctx)
		if err != nil {
			return err
		}
		remaining := r.app.Session.RemainingTime(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nsession expires in %dm%02ds without activity\n",
			u.Name, u.Email, remaining/60, remaining%60)
		return nil
	})
	return cmd
}
