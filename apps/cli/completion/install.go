package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install-autocomplete command
func NewInstallCmd(rootCmd *cobra.Command) *cobra.Command {
	var shellFlag string

	cmd := &cobra.Command{
		Use:   "install-autocomplete",
		Short: "Install shell completion for " + appName,
		Long: `Install shell completion for the ` + appName + ` CLI.

Detects your shell from $SHELL unless --shell is given. Supports bash, zsh,
fish, and powershell. Completes flags (--factor, --format, --quality,
--tag-original, --upload) and image file paths.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			return runInstall(rootCmd, cmd.OutOrStdout(), shellFlag, home)
		},
	}

	cmd.Flags().StringVarP(&shellFlag, "shell", "s", "", "Shell to install completion for (bash, zsh, fish, powershell). Auto-detected if not specified.")

	return cmd
}

func runInstall(rootCmd *cobra.Command, out io.Writer, shellFlag string, home string) error {
	shell, err := resolveShell(shellFlag)
	if err != nil {
		return err
	}

	installPath, err := GetInstallPath(shell, home)
	if err != nil {
		return err
	}

	dir := filepath.Dir(installPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create completion directory %s: %w", dir, err)
	}

	if err := writeCompletionScript(rootCmd, shell, installPath); err != nil {
		return err
	}

	if shell == Bash {
		if err := enableBashAutoLoad(bashCompletionFile(home), installPath); err != nil {
			// non-fatal
			fmt.Fprintf(out, "Warning: could not enable auto-load: %v\n", err)
		}
	}

	fmt.Fprintf(out, "Shell completion installed successfully for %s\n", shell)
	fmt.Fprintf(out, "Completion script location: %s\n", installPath)
	printActivationInstructions(out, shell, installPath)

	return nil
}

func writeCompletionScript(rootCmd *cobra.Command, shell Shell, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create completion file: %w", err)
	}
	defer file.Close()

	switch shell {
	case Bash:
		return rootCmd.GenBashCompletionV2(file, true)
	case Zsh:
		return rootCmd.GenZshCompletion(file)
	case Fish:
		return rootCmd.GenFishCompletion(file, true)
	case Powershell:
		return rootCmd.GenPowerShellCompletionWithDesc(file)
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
}

func printActivationInstructions(out io.Writer, shell Shell, installPath string) {
	switch shell {
	case Bash:
		fmt.Fprintln(out, "\nCompletion is now active. Open a new terminal to use it.")
	case Zsh:
		fmt.Fprintln(out, "\nTo activate completion, ensure this is in your ~/.zshrc:")
		fmt.Fprintf(out, "  fpath=(%s $fpath)\n", filepath.Dir(installPath))
		fmt.Fprintln(out, "  autoload -Uz compinit && compinit")
		fmt.Fprintln(out, "\nThen restart your shell.")
	case Fish:
		fmt.Fprintln(out, "\nCompletion is automatically available in new fish sessions.")
	case Powershell:
		fmt.Fprintln(out, "\nTo activate completion, add this to your PowerShell profile:")
		fmt.Fprintf(out, "  . %s\n", installPath)
	}
}

// enableBashAutoLoad appends a source line for installPath unless one is already present.
func enableBashAutoLoad(completionFile, installPath string) error {
	content, _ := os.ReadFile(completionFile)
	if strings.Contains(string(content), installPath) {
		return nil
	}

	f, err := os.OpenFile(completionFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := fmt.Sprintf("source %s\n", installPath)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		line = "\n" + line
	}
	_, err = f.WriteString(line)
	return err
}
