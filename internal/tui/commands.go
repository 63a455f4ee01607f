package tui

import (
	"fmt"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
)

const ingesterPath = "bin/ingester"

// rebuilds the knowledge base with the ingester binary, or from source when it is not built
func runIngester() tea.Msg {
	var cmd *exec.Cmd
	if _, err := os.Stat(ingesterPath); err == nil {
		cmd = exec.Command(ingesterPath, "rebuild")
	} else {
		cmd = exec.Command("go", "run", "./cmd/ingester", "rebuild")
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return ErrorMsg{err: fmt.Errorf("ingester failed: %w\n%s", err, out)}
	}

	return IngesterCompleteMsg{}
}
