package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/justsurfingit/jobtracker-web/internal/client"
	"github.com/spf13/cobra"
)

func (a *app) resumesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "resumes", Short: "uploaded resumes"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "list resumes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sess, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				resumes, err := a.client.ListResumes(cmd.Context(), sess)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tUPLOADED")
				for _, r := range resumes {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Name, r.UploadedAt)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "upload FILE",
			Short: "upload a PDF or DOCX resume",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				sess, err := a.session(cmd.Context())
				if err != nil {
					return err
				}
				// the quota is checked against what the backend holds now
				existing, err := a.client.ListResumes(cmd.Context(), sess)
				if err != nil {
					return err
				}
				out, err := a.client.UploadResume(cmd.Context(), sess, len(existing), client.Upload{
					Name: filepath.Base(args[0]),
					Data: data,
				})
				if err != nil {
					return err
				}
				s := out.ParseSummary
				fmt.Fprintf(cmd.OutOrStdout(), "resume %d uploaded: %d education, %d experience entries\n",
					out.ResumeID, s.EducationCount, s.ExperienceCount)
				return nil
			},
		},
	)
	return cmd
}
