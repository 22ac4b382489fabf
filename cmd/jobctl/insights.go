package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/justsurfingit/jobtracker-web/internal/client"
	"github.com/justsurfingit/jobtracker-web/internal/dtos"
	"github.com/spf13/cobra"
)

func pairArgs(args []string) (resumeID, jobID int, err error) {
	if resumeID, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid resume id %q", args[0])
	}
	if jobID, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid job id %q", args[1])
	}
	return resumeID, jobID, nil
}

func (a *app) matchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match RESUME_ID JOB_ID",
		Short: "score a resume against a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resumeID, jobID, err := pairArgs(args)
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			m, err := a.client.MatchScore(cmd.Context(), sess, resumeID, jobID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			// the backend scores on a 0 to 100 scale
			fmt.Fprintf(w, "score: %.0f%%\n", m.Score)
			if len(m.MissingSkills) > 0 {
				fmt.Fprintf(w, "missing: %s\n", strings.Join(m.MissingSkills, ", "))
			}
			return nil
		},
	}
}

func (a *app) improveCommand() *cobra.Command {
	var aiContent int
	cmd := &cobra.Command{
		Use:   "improve RESUME_ID JOB_ID",
		Short: "suggest resume bullet improvements for a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resumeID, jobID, err := pairArgs(args)
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.client.ImproveResume(cmd.Context(), sess, resumeID, jobID, aiContent)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, imp := range out.Improvements {
				fmt.Fprintf(w, "- %s\n+ %s\n\n", imp.OriginalBullet, imp.ImprovedBullet)
			}
			for _, b := range out.NewBullets {
				fmt.Fprintf(w, "+ %s\n", b)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&aiContent, "ai", client.DefaultAIContent, "share of AI written content, 0 to 100")
	return cmd
}

func (a *app) messageCommand() *cobra.Command {
	var req dtos.RecruiterMessageRequest
	cmd := &cobra.Command{
		Use:   "message RESUME_ID JOB_ID",
		Short: "draft a recruiter message, optionally emailing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			req.ResumeID, req.JobID, err = pairArgs(args)
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.client.RecruiterMessage(cmd.Context(), sess, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			if out.EmailSent {
				fmt.Fprintf(cmd.OutOrStdout(), "\nsent to %s\n", req.RecipientEmail)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.RecipientName, "name", "", "recipient name")
	cmd.Flags().StringVar(&req.RecipientEmail, "to", "", "send the message to this address")
	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "show uploaded resumes, tracked jobs and generated recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			h, err := a.client.History(cmd.Context(), sess)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "resumes: %d\n", len(h.Resumes))
			for _, r := range h.Resumes {
				fmt.Fprintf(w, "  %d  %s\n", r.ResumeID, r.UploadedAt)
			}
			fmt.Fprintf(w, "jobs: %d\n", len(h.Jobs))
			for _, j := range h.Jobs {
				company := "-"
				if j.Company != nil {
					company = *j.Company
				}
				fmt.Fprintf(w, "  %d  %s at %s  %s\n", j.JobID, j.Title, company, j.PostedAt)
			}
			fmt.Fprintf(w, "recommendations: %d\n", len(h.Recommendations))
			return nil
		},
	}
}
