package main

import (
	"github.com/spf13/cobra"

	"github.com/zhouzirui/resume-console/internal/service/coordinator"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Print job recommendations for the last extracted resume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOnce(cmd, coordinator.Event{Action: coordinator.ActionSearchJobs})
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
