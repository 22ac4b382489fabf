package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/justsurfingit/jobtracker-web/internal/client"
	"github.com/justsurfingit/jobtracker-web/internal/models"
	"github.com/spf13/cobra"
)

func (a *app) jobsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "jobs", Short: "tracked job postings"}
	cmd.AddCommand(a.jobsListCommand(), a.jobsAddCommand(), a.jobsStatusCommand(), a.jobsShowCommand())
	return cmd
}

func (a *app) jobsListCommand() *cobra.Command {
	var f client.JobFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			jobs, err := a.client.ListJobs(cmd.Context(), sess)
			if err != nil {
				return err
			}
			printJobs(cmd.OutOrStdout(), client.FilterJobs(jobs, f))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "only jobs with this status")
	cmd.Flags().StringVar(&f.Query, "query", "", "match title or company")
	cmd.Flags().StringVar(&f.Sort, "sort", client.SortPosted, "posted, title, company or score")
	cmd.Flags().BoolVar(&f.Desc, "desc", false, "sort descending")
	return cmd
}

func printJobs(w io.Writer, jobs []models.Job) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tSTATUS\tSCORE\tPOSTED")
	for _, j := range jobs {
		score := "-"
		if j.MatchScore != nil {
			score = strconv.FormatFloat(*j.MatchScore, 'f', 2, 64)
		}
		company := j.CompanyName()
		if company == "" {
			company = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, company, j.DisplayStatus(), score, j.PostedAt)
	}
	tw.Flush()
}

func (a *app) jobsAddCommand() *cobra.Command {
	var job client.NewJob
	var resumeID int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "submit a job description for processing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if resumeID > 0 {
				job.ResumeID = &resumeID
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.client.SubmitJob(cmd.Context(), sess, job)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %d submitted (%s)\n", out.JobID, out.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&job.Title, "title", "", "job title")
	cmd.Flags().StringVar(&job.Company, "company", "", "company name")
	cmd.Flags().StringVar(&job.Description, "description", "", "job description text")
	cmd.Flags().IntVar(&resumeID, "resume", 0, "resume to attach")
	return cmd
}

func (a *app) jobsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "status JOB_ID STATUS",
		Short:     "change a job's application status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: models.KnownStatuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.client.UpdateJobStatus(cmd.Context(), sess, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %d is now %s\n", id, args[1])
			return nil
		},
	}
}

func (a *app) jobsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show JOB_ID",
		Short: "show a job with its generated messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			d, err := a.client.JobDetails(cmd.Context(), sess, id)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s at %s [%s]\n\n%s\n", d.Title, d.CompanyName(), d.DisplayStatus(), d.Description)
			if d.RecruiterMessage != nil {
				fmt.Fprintf(w, "\nRecruiter message:\n%s\n", *d.RecruiterMessage)
			}
			if d.ReferralMessage != nil {
				fmt.Fprintf(w, "\nReferral message:\n%s\n", *d.ReferralMessage)
			}
			return nil
		},
	}
}
