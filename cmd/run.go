package main

import (
	"fmt"

	uuid "github.com/google/uuid"
	ci "github.com/masenocturnal/deletecontent/internal/common_interfaces"
	"github.com/masenocturnal/deletecontent/internal/config"
	"github.com/masenocturnal/deletecontent/pipelines/deletecontent"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCmd(loadConfig func() (*config.HostConfig, error)) *cobra.Command {
	var payload ci.StepPayload

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the deletion step of one process",
		Long:  "Run the deletion step of one process once and set the step to done or error. Exits non-zero when the step failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if payload.ProcessID <= 0 || payload.StepID <= 0 {
				return fmt.Errorf("--process and --step are required")
			}
			hostConfig, err := loadConfig()
			if err != nil {
				return err
			}
			if payload.CorrelationID == "" {
				payload.CorrelationID = uuid.New().String()
			}

			logEntry := log.WithFields(log.Fields{
				"correlationId": payload.CorrelationID,
			})

			pipeline, err := deletecontent.New(hostConfig, logEntry)
			if err != nil {
				logEntry.Error(err.Error())
				return err
			}
			defer pipeline.Close()

			return runOnce(pipeline, payload)
		},
	}

	cmd.Flags().IntVarP(&payload.ProcessID, "process", "p", 0, "Id of the process")
	cmd.Flags().IntVarP(&payload.StepID, "step", "s", 0, "Id of the step to run")
	cmd.Flags().StringVar(&payload.CorrelationID, "correlation-id", "", "Correlation id to log with, random when empty")
	return cmd
}

func runOnce(pipeline ci.PipelineInterface, payload ci.StepPayload) error {
	pipelineErrors := pipeline.Execute(payload)
	if len(pipelineErrors) > 0 {
		for _, err := range pipelineErrors {
			pipeline.GetLogger().Error(err.Error())
		}
		pipeline.GetLogger().Info("Delete Content Complete with Errors")
		return fmt.Errorf("step %d of process %d failed", payload.StepID, payload.ProcessID)
	}
	pipeline.GetLogger().Info("Delete Content Complete")
	return nil
}
