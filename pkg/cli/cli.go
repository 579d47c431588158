// Package cli exposes the portal operations as a command-line tool, mainly
// for poking at deployments and demoing the realtime flow.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/config"
	"github.com/iam-santhosh777/jobportal-client/pkg/httpclient"
	"github.com/iam-santhosh777/jobportal-client/pkg/realtime"
	"github.com/iam-santhosh777/jobportal-client/pkg/session"
)

var (
	flagToken  string
	flagOutput string
)

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "jobportal",
		Short:        "Client for the job portal backend",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("JOBPORTAL_TOKEN"), "bearer token from a previous login")
	cmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "output format, table or json")

	cmd.AddCommand(
		loginCommand(),
		jobsCommand(),
		applicationsCommand(),
		statsCommand(),
		resumesCommand(),
		watchCommand(),
		monitorCommand(),
	)
	return cmd
}

func newSession() (*session.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return session.New(logger, cfg), nil
}

func requestContext(cmd *cobra.Command) *httpclient.Context {
	return &httpclient.Context{Ctx: cmd.Context(), Token: flagToken}
}

func printOutput(rows []table.Row, header table.Row, obj any) error {
	if flagOutput == "json" {
		bytes, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(bytes))
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	return nil
}

func loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a token for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			user, err := s.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			defer s.Logout()
			fmt.Printf("logged in as %s (%s)\n", user.Name, user.Role)
			fmt.Printf("export JOBPORTAL_TOKEN=%s\n", s.Context(cmd.Context()).Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			stats, err := s.Client().GetStats(requestContext(cmd))
			if err != nil {
				return err
			}
			return printOutput(
				[]table.Row{{stats.TotalJobs, stats.TotalApplications, stats.ExpiredJobs, stats.TotalResumes}},
				table.Row{"jobs", "applications", "expired", "resumes"},
				stats,
			)
		},
	}
}

func watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream realtime events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}

			ch := realtime.NewChannel(logger, cfg)
			ch.On(realtime.EventNewApplication, func(data json.RawMessage) {
				fmt.Printf("new-application %s\n", data)
			})
			ch.On(realtime.EventJobExpired, func(data json.RawMessage) {
				fmt.Printf("job-expired %s\n", data)
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if err := ch.Connect(ctx, flagToken); err != nil {
				return err
			}
			defer ch.Disconnect()

			<-ctx.Done()
			return nil
		},
	}
}
