package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func applicationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Inspect job applications",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			apps, err := s.Client().GetAllApplications(requestContext(cmd))
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(apps))
			for _, app := range apps {
				rows = append(rows, table.Row{app.ID, app.JobTitle, app.UserName, app.UserEmail, app.Status, app.AppliedAt})
			}
			return printOutput(rows, table.Row{"id", "job", "applicant", "email", "status", "applied"}, apps)
		},
	})
	return cmd
}

func resumesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resumes",
		Short: "Manage uploaded resumes",
	}
	cmd.AddCommand(
		resumesListCommand(),
		resumesUploadCommand(),
		resumesDeleteCommand(),
		resumesDownloadCommand(),
	)
	return cmd
}

func resumesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded resumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			resumes, err := s.Client().GetAllResumes(requestContext(cmd))
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(resumes))
			for _, r := range resumes {
				rows = append(rows, table.Row{r.ID, r.FileName, formatSize(r.FileSize), r.UploadedAt})
			}
			return printOutput(rows, table.Row{"id", "file", "size", "uploaded"}, resumes)
		},
	}
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func resumesUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a resume file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			resume, err := s.Client().UploadResume(requestContext(cmd), filepath.Base(args[0]), info.Size(), f, func(percent int) {
				fmt.Printf("\ruploading %d%%", percent)
			})
			if err != nil {
				fmt.Println()
				return err
			}
			fmt.Printf("\nuploaded %s as %s\n", resume.FileName, resume.ID)
			return nil
		},
	}
}

func resumesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RESUME_ID",
		Short: "Delete an uploaded resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			if err := s.Client().DeleteResume(requestContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Printf("resume %s deleted\n", args[0])
			return nil
		},
	}
}

func resumesDownloadCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download RESUME_ID",
		Short: "Download a resume file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}

			dst := os.Stdout
			if out != "" {
				dst, err = os.Create(out)
				if err != nil {
					return err
				}
				defer dst.Close()
			}
			n, err := s.Client().DownloadResume(requestContext(cmd), args[0], dst)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Printf("wrote %d bytes to %s\n", n, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "file", "", "write to a file instead of stdout")
	return cmd
}
