package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/jobtracker-web/internal/client"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/spf13/cobra"
)

func (a *app) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "AI provider settings"}
	cmd.AddCommand(a.settingsShowCommand(), a.settingsSetCommand(), a.settingsTestCommand(), settingsProvidersCommand())
	return cmd
}

func (a *app) settingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "show the stored provider and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.client.GetSettings(cmd.Context(), sess)
			if err != nil {
				return err
			}
			key := s.APIKeyMasked
			if key == "" {
				key = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "provider: %s\nmodel:    %s\nkey:      %s\n", s.AIProvider, s.ModelPreference, key)
			return nil
		},
	}
}

func (a *app) settingsSetCommand() *cobra.Command {
	var upd dtos.SettingsUpdate
	cmd := &cobra.Command{
		Use:   "set",
		Short: "store provider, key and model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			s, err := a.client.SaveSettings(cmd.Context(), sess, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s / %s\n", s.AIProvider, s.ModelPreference)
			return nil
		},
	}
	cmd.Flags().StringVar(&upd.AIProvider, "provider", "openai", "openai, anthropic or gemini")
	cmd.Flags().StringVar(&upd.APIKey, "key", "", "API key; empty keeps the stored one")
	cmd.Flags().StringVar(&upd.ModelPreference, "model", "", "model; defaults to the provider's newest")
	return cmd
}

func (a *app) settingsTestCommand() *cobra.Command {
	var t dtos.ConnectionTest
	cmd := &cobra.Command{
		Use:   "test",
		Short: "check that a provider key works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.client.TestConnection(cmd.Context(), sess, t)
			if err != nil {
				return err
			}
			if !out.Success {
				return errors.New(firstNonEmpty(out.Error, out.Message, "Connection test failed"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), firstNonEmpty(out.Message, "Connection successful"))
			return nil
		},
	}
	cmd.Flags().StringVar(&t.AIProvider, "provider", "openai", "openai, anthropic or gemini")
	cmd.Flags().StringVar(&t.APIKey, "key", "", "API key to test")
	cmd.Flags().StringVar(&t.ModelPreference, "model", "", "model to test with")
	return cmd
}

func settingsProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "list supported providers and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range client.Providers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n  key: %s\n  models: %s\n",
					p.ID, p.Name, p.KeyURL, strings.Join(p.Models, ", "))
			}
			return nil
		},
		// no relay needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
