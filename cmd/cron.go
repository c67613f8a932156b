package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appCron "shopify.GO/cron"
	"shopify.GO/service/export"
)

var (
	cronSchedule string
	cronJob      string
	cronOpts     exportOptions
)

var cronStartCmd = &cobra.Command{
	Use:   "cron:start <store-name> <access-token>",
	Short: "Export the catalog on a schedule",
	Long: `Run the catalog export on --schedule (default $EXPORT_SCHEDULE) until
interrupted. Runs never overlap. With --job the named job runs once and
the command exits.`,
	Example: "  shopify cron:start my-store shpat_xxx --schedule '@every 30m' --sink sql",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(args[0], args[1])
		if err != nil {
			return err
		}
		defer s.close()

		schedule := firstNonEmpty(cronSchedule, s.app.ExportSchedule)
		reg := appCron.NewRegistry()
		err = reg.Register("export", schedule, func(ctx context.Context) error {
			return runScheduledExport(ctx, s, &cronOpts, cmd.OutOrStdout())
		})
		if err != nil {
			return err
		}

		if cronJob != "" {
			job, ok := reg.Lookup(cronJob)
			if !ok {
				return fmt.Errorf("unknown job %q (have %v)", cronJob, reg.Names())
			}
			return job.Run(cmd.Context())
		}

		c, err := appCron.StartCron(cmd.Context(), reg, s.log)
		if err != nil {
			return err
		}
		s.log.Info("cron started", zap.Strings("jobs", reg.Names()), zap.String("schedule", schedule))
		fmt.Fprintf(cmd.OutOrStdout(), "Cron started for %s (%s). Press Ctrl+C to stop.\n", s.store, schedule)

		<-cmd.Context().Done()
		<-c.Stop().Done()
		s.log.Info("cron stopped")
		return nil
	},
}

// runScheduledExport opens the sinks for one run only, so a sink that fails
// to connect is retried on the next tick.
func runScheduledExport(ctx context.Context, s *session, o *exportOptions, stdout io.Writer) error {
	sinks, err := openSinks(s, o, stdout)
	if err != nil {
		return err
	}
	defer export.CloseAll(sinks...)
	_, _, err = exportCatalog(ctx, s, o, sinks)
	return err
}

func init() {
	f := cronStartCmd.Flags()
	f.StringVar(&cronSchedule, "schedule", "", "Cron spec or @every duration (default $EXPORT_SCHEDULE)")
	f.StringVar(&cronJob, "job", "", "Run this job once and exit")
	bindExportFlags(f, &cronOpts, []string{"sql"})
	Register(cronStartCmd)
}
