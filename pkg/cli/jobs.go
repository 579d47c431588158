package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iam-santhosh777/jobportal-client/pkg/api"
)

func jobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job postings",
	}
	cmd.AddCommand(
		jobsListCommand(),
		jobsPostCommand(),
		jobsExpireCommand(),
		jobsApplyCommand(),
	)
	return cmd
}

func jobsListCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job postings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			var jobs []api.Job
			if filter == "active" {
				jobs, err = s.Client().GetActiveJobs(requestContext(cmd))
			} else {
				jobs, err = s.Client().GetAllJobs(requestContext(cmd))
			}
			if err != nil {
				return err
			}
			if filter == "expired" {
				kept := jobs[:0]
				for _, job := range jobs {
					if job.Expired() {
						kept = append(kept, job)
					}
				}
				jobs = kept
			}

			rows := make([]table.Row, 0, len(jobs))
			for _, job := range jobs {
				status := "active"
				if job.Expired() {
					status = "expired"
				}
				rows = append(rows, table.Row{job.ID, job.Title, job.Company, job.Location, status, job.ExpiryDate})
			}
			return printOutput(rows, table.Row{"id", "title", "company", "location", "status", "expires"}, jobs)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or expired")
	return cmd
}

func jobsPostCommand() *cobra.Command {
	var req api.CreateJobRequest
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a job posting",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			job, err := s.Client().CreateJob(requestContext(cmd), req)
			if err != nil {
				return err
			}
			fmt.Printf("created job %s\n", job.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "job title")
	cmd.Flags().StringVar(&req.Description, "description", "", "job description")
	cmd.Flags().StringVar(&req.Company, "company", "", "company name")
	cmd.Flags().StringVar(&req.Location, "location", "", "job location")
	cmd.Flags().StringVar(&req.Salary, "salary", "", "salary range")
	cmd.Flags().StringVar(&req.ExpiryDate, "expiry", "", "expiry date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func jobsExpireCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expire JOB_ID",
		Short: "Mark a job posting as expired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			if _, err := s.Client().MarkAsExpired(requestContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Printf("job %s marked as expired\n", args[0])
			return nil
		},
	}
}

func jobsApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply JOB_ID",
		Short: "Apply to a job posting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			app, err := s.Client().ApplyToJob(requestContext(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("application %s submitted\n", app.ID)
			return nil
		},
	}
}
