package main

import (
	"github.com/spf13/cobra"

	"github.com/zhouzirui/resume-console/internal/service/coordinator"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Upload a resume and print the extracted profile",
	RunE:  runExtract,
}

var extractFile string

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to the resume document")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	upload, closeFile, err := openUpload(extractFile)
	if err != nil {
		return err
	}
	defer closeFile()

	return runOnce(cmd, coordinator.Event{Action: coordinator.ActionExtract, File: upload})
}
