package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/humanitec/cursor-reset/internal/cleaner"
	"github.com/humanitec/cursor-reset/internal/message"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a mode interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		answer, err := message.Select("What do you want to do?", menuOptions())
		if err != nil {
			return err
		}
		mode, err := modeFromOption(answer)
		if err != nil {
			return err
		}

		progress := false
		if mode != cleaner.ModeInfo {
			progress, err = message.BoolSelect("Show the progress view?")
			if err != nil {
				return err
			}
		}
		return runMode(cmd.Context(), mode, progress)
	},
}

const optionSeparator = " - "

func menuOptions() []string {
	options := make([]string, len(cleaner.Modes))
	for i, m := range cleaner.Modes {
		options[i] = string(m) + optionSeparator + m.Description()
	}
	return options
}

func modeFromOption(option string) (cleaner.Mode, error) {
	name, _, found := strings.Cut(option, optionSeparator)
	if !found {
		return "", fmt.Errorf("unexpected option %q", option)
	}
	return cleaner.ParseMode(name)
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
