package cli

import (
	"bytes"
	"fmt"

	"github.com/sibeni-li/khronos/internal/buildinfo"
	"github.com/sibeni-li/khronos/internal/filex"
	"github.com/spf13/cobra"
)

const defaultLibraryFile = "khronoslib.zip"

func newDownloadCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "download [dest]",
		Short: "Download the profiler library archive",
		Long:  "Download the profiler library archive to dest (default " + defaultLibraryFile + ").",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := defaultLibraryFile
			if len(args) == 1 {
				dest = args[0]
			}
			return app().Download(cmd, dest)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
			return nil
		},
	}
}

// Download fetches the library and writes it to dest. Nothing is written
// when the download fails.
func (a *App) Download(cmd *cobra.Command, dest string) error {
	var buf bytes.Buffer
	n, err := a.client.DownloadLibrary(cmd.Context(), &buf)
	if err != nil {
		return fmt.Errorf("download library: %w", err)
	}

	if err := filex.WriteFileAtomic(dest, buf.Bytes(), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, dest)
	return nil
}
