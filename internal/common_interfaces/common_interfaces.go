package common_interfaces

import (
	"github.com/sirupsen/logrus"
)

// StepPayload identifies the workflow step a message asks to run
type StepPayload struct {
	ProcessID     int    `json:"processId"`
	StepID        int    `json:"stepId"`
	CorrelationID string `json:"correlationId"`
}

// PipelineInterface is what the daemon drives, either once from the command line or from the message bus
type PipelineInterface interface {
	GetCorrelationID() string
	Execute(payload StepPayload) []error
	StartListener(chan error)
	GetLogger() *logrus.Entry
	Close() error
}
