package completion

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName is the binary the completion scripts are generated for
const appName = "imageshrink"

// Shell represents a supported shell
type Shell string

const (
	Bash       Shell = "bash"
	Zsh        Shell = "zsh"
	Fish       Shell = "fish"
	Powershell Shell = "powershell"
)

// DetectShell detects the user's current shell from the SHELL environment variable
func DetectShell() (Shell, error) {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		if runtime.GOOS == "windows" {
			return Powershell, nil
		}
		return "", fmt.Errorf("unable to detect shell: SHELL environment variable not set")
	}

	switch shell := Shell(filepath.Base(shellPath)); shell {
	case Bash, Zsh, Fish:
		return shell, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
}

// resolveShell returns the shell named by flag, or the detected one when flag is empty
func resolveShell(flag string) (Shell, error) {
	if flag != "" {
		return Shell(flag), nil
	}
	shell, err := DetectShell()
	if err != nil {
		return "", fmt.Errorf("failed to detect shell: %w\nSpecify shell explicitly with --shell flag", err)
	}
	return shell, nil
}

// GetInstallPath returns the installation path for shell completion scripts
func GetInstallPath(shell Shell, home string) (string, error) {
	switch shell {
	case Bash:
		return filepath.Join(home, ".bash_completion.d", appName), nil
	case Zsh:
		return filepath.Join(home, ".zsh", "completion", "_"+appName), nil
	case Fish:
		return filepath.Join(home, ".config", "fish", "completions", appName+".fish"), nil
	case Powershell:
		if runtime.GOOS == "windows" {
			return filepath.Join(home, "Documents", "WindowsPowerShell", "Scripts", appName+".ps1"), nil
		}
		return "", fmt.Errorf("powershell not supported on %s", runtime.GOOS)
	default:
		return "", fmt.Errorf("unsupported shell: %s", shell)
	}
}

// bashCompletionFile is the per-user file bash sources on startup
func bashCompletionFile(home string) string {
	return filepath.Join(home, ".bash_completion")
}
