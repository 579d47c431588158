package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iam-santhosh777/jobportal-client/pkg/config"
	"github.com/iam-santhosh777/jobportal-client/pkg/controller"
	"github.com/iam-santhosh777/jobportal-client/pkg/session"
)

// monitorCommand keeps the dashboard and application controllers live
// against the realtime channel and prints counter changes as they land.
func monitorCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Follow dashboard counters and incoming applications live",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}

			s := session.New(logger, cfg)
			if _, err := s.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			defer s.Logout()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			reqCtx := s.Context(ctx)
			notifier := controller.NewZapNotifier(logger)

			dashboard := controller.NewDashboardController(logger, s.Client(), notifier)
			dashboard.Start(reqCtx, s.Bus())
			defer dashboard.Close()

			applications := controller.NewApplicationsController(logger, s.Client(), notifier)
			applications.Start(reqCtx, s.Bus())
			defer applications.Close()

			stats := dashboard.Stats()
			fmt.Printf("jobs=%d applications=%d expired=%d resumes=%d\n",
				stats.TotalJobs, stats.TotalApplications, stats.ExpiredJobs, stats.TotalResumes)

			<-ctx.Done()

			stats = dashboard.Stats()
			fmt.Printf("final: jobs=%d applications=%d expired=%d resumes=%d tracked=%d\n",
				stats.TotalJobs, stats.TotalApplications, stats.ExpiredJobs, stats.TotalResumes,
				len(applications.Applications()))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
