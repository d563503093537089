package cli

import (
	"io"

	"github.com/sibeni-li/khronos/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the khronos command tree reading prompts from in
// and writing results to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	var (
		configPath string
		serverURL  string
		app        *App
	)

	root := &cobra.Command{
		Use:   "khronos",
		Short: "Upload and inspect profiling runs",
		Long: `khronos is the command-line client of the khronos server.

Typical session:
  khronos register
  khronos upload run.json
  khronos history
  khronos report <id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}

			tokens, err := defaultTokenStore()
			if err != nil {
				return err
			}
			app = NewApp(cfg, tokens, in, out)
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "server base URL (overrides config)")

	current := func() *App { return app }
	root.AddCommand(
		newRegisterCmd(current),
		newLoginCmd(current),
		newLogoutCmd(current),
		newUploadCmd(current),
		newHistoryCmd(current),
		newDashboardCmd(current),
		newReportCmd(current),
		newDownloadCmd(current),
		newVersionCmd(),
	)
	return root
}
