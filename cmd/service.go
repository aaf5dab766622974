package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-rcp/rcpdaemon/internal/config"
	"github.com/open-rcp/rcpdaemon/internal/daemon"
	"github.com/open-rcp/rcpdaemon/internal/svc"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Service lifecycle operations (status/start/stop/restart/install/uninstall)",
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display service status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		f := newFormatter(doc)

		client := &daemon.Client{
			Host:    doc.Connection.Host,
			Port:    doc.Connection.Port,
			Timeout: time.Duration(doc.Other.TimeoutSeconds) * time.Second,
			Token:   doc.Auth.Token,
		}
		status, err := client.GetStatus(cmd.Context())
		if err != nil {
			var connErr *daemon.ConnectError
			if errors.As(err, &connErr) {
				// Unreachable daemon is an answer, not a failure
				f.Warning("Could not connect to rcpdaemon service")
				if !f.JSON {
					f.Info("the daemon may not be running; try 'rcpdaemon service start'")
				}
				return nil
			}
			return err
		}

		if f.JSON {
			return f.Emit(status)
		}
		f.Info("rcpdaemon Service Status:")
		if status.Running {
			f.Info("Status: Running")
		} else {
			f.Info("Status: Stopped")
		}
		if status.PID != nil {
			f.Info(fmt.Sprintf("Process ID: %d", *status.PID))
		}
		if status.Uptime != nil {
			f.Info(fmt.Sprintf("Uptime: %s", *status.Uptime))
		}
		f.Info(fmt.Sprintf("Version: %s", status.Version))
		return nil
	},
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		if err := newManager(doc).Start(cmd.Context(), svc.ServiceName); err != nil {
			return err
		}
		newFormatter(doc).Success("service started")
		return nil
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		if err := newManager(doc).Stop(cmd.Context(), svc.ServiceName); err != nil {
			return err
		}
		newFormatter(doc).Success("service stopped")
		return nil
	},
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		if err := newManager(doc).Restart(cmd.Context(), svc.ServiceName); err != nil {
			return err
		}
		newFormatter(doc).Success("service restarted")
		return nil
	},
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the daemon as a native service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, path, err := loadDocument()
		if err != nil {
			return err
		}
		desc, err := svc.DefaultDescriptor(path)
		if err != nil {
			return err
		}
		if err := newManager(doc).Install(cmd.Context(), desc); err != nil {
			return err
		}
		newFormatter(doc).Success(fmt.Sprintf("service %s installed", desc.Name))
		return nil
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the native service registration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _, err := loadDocument()
		if err != nil {
			return err
		}
		if err := newManager(doc).Uninstall(cmd.Context(), svc.ServiceName); err != nil {
			return err
		}
		newFormatter(doc).Success(fmt.Sprintf("service %s uninstalled", svc.ServiceName))
		return nil
	},
}

var (
	logLines  int
	logFollow bool
)

var serviceLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Display service logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return daemon.Tail(cmd.Context(), daemon.LogPath(), logLines, logFollow, os.Stdout)
	},
}

// newManager builds the platform strategy for the current host, bounded
// by the configured command timeout
func newManager(doc *config.Document) svc.Manager {
	return svc.New(
		svc.WithLogger(slog.Default()),
		svc.WithCommandTimeout(time.Duration(doc.Other.TimeoutSeconds)*time.Second),
	)
}

func init() {
	serviceLogsCmd.Flags().IntVarP(&logLines, "lines", "n", 10, "number of lines to display")
	serviceLogsCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "follow log output")

	serviceCmd.AddCommand(
		serviceStatusCmd,
		serviceStartCmd,
		serviceStopCmd,
		serviceRestartCmd,
		serviceInstallCmd,
		serviceUninstallCmd,
		serviceLogsCmd,
	)
	rootCmd.AddCommand(serviceCmd)
}
