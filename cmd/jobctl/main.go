// Command jobctl drives the job tracker from a terminal through the same
// relay and backend the dashboard uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/client"
	"github.com/justsurfingit/jobtracker-web/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v      *viper.Viper
	client *client.Client
	sess   *client.Session
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", apierr.MessageOf(err, err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("JOBCTL")
	a.v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "jobctl",
		Short:        "manage tracked jobs, resumes and AI settings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(a.v.GetString("log_level"), "console")
			c, err := client.New(client.Config{
				OriginURL:  a.v.GetString("relay_url"),
				BackendURL: a.v.GetString("api_url"),
			})
			if err != nil {
				return err
			}
			a.client = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.sess == nil {
				return nil
			}
			if err := a.client.SignOut(cmd.Context(), a.sess); err != nil {
				log.Warn().Err(err).Msg("sign out failed")
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("relay-url", "http://localhost:3000", "relay origin including base path")
	flags.String("api-url", "http://localhost:8000", "backend base url")
	flags.String("email", "", "account email")
	flags.String("password", "", "account password")
	flags.String("log-level", "warn", "log level")
	for key, name := range map[string]string{
		"relay_url": "relay-url",
		"api_url":   "api-url",
		"email":     "email",
		"password":  "password",
		"log_level": "log-level",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(
		a.jobsCommand(),
		a.resumesCommand(),
		a.settingsCommand(),
		a.matchCommand(),
		a.improveCommand(),
		a.messageCommand(),
		a.historyCommand(),
		a.registerCommand(),
	)
	return cmd
}

// session signs in once per invocation.
func (a *app) session(ctx context.Context) (*client.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	email, password := a.v.GetString("email"), a.v.GetString("password")
	if email == "" || password == "" {
		return nil, errors.New("credentials required: set --email/--password or JOBCTL_EMAIL/JOBCTL_PASSWORD")
	}
	sess, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("user", sess.User.Email).Msg("signed in")
	a.sess = sess
	return sess, nil
}

func (a *app) registerCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "create an account with --email and --password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.client.Register(cmd.Context(), a.v.GetString("email"), a.v.GetString("password"), name)
			if err != nil {
				return err
			}
			a.sess = sess
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %s)\n", sess.User.Email, sess.User.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}
