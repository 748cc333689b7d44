// Command tracksync-cli drives one tracker sync with a live bubbletea
// progress view, the way the driver's existing chat UI wraps long-running
// operations in a terminal program.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tracksync/internal/config"
	"tracksync/internal/tui"
	"tracksync/pkg/tracksync"
)

// syncSteps enumerates the fixed steps a sync always performs, in order: it
// sizes the progress bar and supplies each step's label.
var syncSteps = []string{
	"open base station",
	"bring up tracker session",
	"fetch tracker info",
	"read data banks",
}

func main() {
	cfg := config.MustLoad()
	program := tea.NewProgram(tui.NewModel(len(syncSteps)))

	go runSync(cfg, program)

	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSync(cfg config.DriverConfig, program *tea.Program) {
	step := func(label string, err error) {
		program.Send(tui.StepMsg{Label: label, Err: err})
	}
	done := func(err error) {
		program.Send(tui.StepMsg{Label: "done", Err: err, Done: true})
	}

	client, err := tracksync.Open(cfg)
	step(syncSteps[0], err)
	if err != nil {
		done(err)
		return
	}
	defer client.Close()

	sess := client.Session()
	err = sess.InitForTransfer()
	step(syncSteps[1], err)
	if err != nil {
		done(err)
		return
	}

	_, err = sess.GetInfo()
	step(syncSteps[2], err)
	if err != nil {
		done(err)
		return
	}

	var lastErr error
	for _, bank := range []byte{0, 1, 2} {
		if _, err := sess.ReadDataBank(bank); err != nil {
			lastErr = err
			break
		}
	}
	step(syncSteps[3], lastErr)
	done(lastErr)
}
