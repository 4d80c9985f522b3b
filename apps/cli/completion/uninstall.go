package completion

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall-autocomplete command
func NewUninstallCmd() *cobra.Command {
	var shellFlag string

	cmd := &cobra.Command{
		Use:   "uninstall-autocomplete",
		Short: "Uninstall shell completion for " + appName,
		Long:  `Remove the shell completion script installed by install-autocomplete.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			return runUninstall(cmd.OutOrStdout(), shellFlag, home)
		},
	}

	cmd.Flags().StringVarP(&shellFlag, "shell", "s", "", "Shell to uninstall completion from (bash, zsh, fish, powershell). Auto-detected if not specified.")

	return cmd
}

func runUninstall(out io.Writer, shellFlag string, home string) error {
	shell, err := resolveShell(shellFlag)
	if err != nil {
		return err
	}

	installPath, err := GetInstallPath(shell, home)
	if err != nil {
		return err
	}

	if _, err := os.Stat(installPath); os.IsNotExist(err) {
		return fmt.Errorf("completion not installed for %s (expected at %s)", shell, installPath)
	}

	if shell == Bash {
		if err := disableBashAutoLoad(bashCompletionFile(home), installPath); err != nil {
			fmt.Fprintf(out, "Warning: could not disable auto-load: %v\n", err)
		}
	}

	if err := os.Remove(installPath); err != nil {
		return fmt.Errorf("failed to remove completion file: %w", err)
	}

	fmt.Fprintf(out, "Shell completion uninstalled successfully for %s\n", shell)
	fmt.Fprintf(out, "Removed: %s\n", installPath)
	if shell == Powershell {
		fmt.Fprintln(out, "\nYou may want to remove the source line from your PowerShell profile")
	} else {
		fmt.Fprintln(out, "\nRestart your shell to complete removal.")
	}

	return nil
}

// disableBashAutoLoad drops every line mentioning installPath from the completion file.
func disableBashAutoLoad(completionFile, installPath string) error {
	content, err := os.ReadFile(completionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var kept []string
	for _, line := range strings.Split(string(content), "\n") {
		if !strings.Contains(line, installPath) {
			kept = append(kept, line)
		}
	}
	return os.WriteFile(completionFile, []byte(strings.Join(kept, "\n")), 0644)
}
