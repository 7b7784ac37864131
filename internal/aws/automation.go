package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// AutomationAPI is the subset of SSM used to drive the hosted runbook.
// Satisfied by *ssm.Client.
type AutomationAPI interface {
	StartAutomationExecution(ctx context.Context, params *ssm.StartAutomationExecutionInput, optFns ...func(*ssm.Options)) (*ssm.StartAutomationExecutionOutput, error)
	GetAutomationExecution(ctx context.Context, params *ssm.GetAutomationExecutionInput, optFns ...func(*ssm.Options)) (*ssm.GetAutomationExecutionOutput, error)
}

// Automation starts and inspects SSM Automation executions of the
// API Gateway troubleshooting runbook
type Automation struct {
	ssm AutomationAPI
}

// NewAutomation creates an Automation over the given SSM client
func NewAutomation(api AutomationAPI) *Automation {
	return &Automation{ssm: api}
}

// AutomationStatus summarizes one automation execution
type AutomationStatus struct {
	ExecutionID    string              `json:"executionId"`
	DocumentName   string              `json:"documentName"`
	Status         string              `json:"status"`
	StartTime      time.Time           `json:"startTime,omitempty"`
	EndTime        time.Time           `json:"endTime,omitempty"`
	FailureMessage string              `json:"failureMessage,omitempty"`
	Outputs        map[string][]string `json:"outputs,omitempty"`
}

// Start begins an automation execution of the named document
func (a *Automation) Start(ctx context.Context, document string, params map[string][]string) (string, error) {
	out, err := a.ssm.StartAutomationExecution(ctx, &ssm.StartAutomationExecutionInput{
		DocumentName: &document,
		Parameters:   params,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start automation execution of %s: %w", document, err)
	}
	return deref(out.AutomationExecutionId), nil
}

// Status returns the current state of an automation execution
func (a *Automation) Status(ctx context.Context, executionID string) (*AutomationStatus, error) {
	out, err := a.ssm.GetAutomationExecution(ctx, &ssm.GetAutomationExecutionInput{
		AutomationExecutionId: &executionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get automation execution %s: %w", executionID, err)
	}

	exec := out.AutomationExecution
	status := &AutomationStatus{
		ExecutionID:    deref(exec.AutomationExecutionId),
		DocumentName:   deref(exec.DocumentName),
		Status:         string(exec.AutomationExecutionStatus),
		FailureMessage: deref(exec.FailureMessage),
		Outputs:        exec.Outputs,
	}
	if exec.ExecutionStartTime != nil {
		status.StartTime = *exec.ExecutionStartTime
	}
	if exec.ExecutionEndTime != nil {
		status.EndTime = *exec.ExecutionEndTime
	}
	return status, nil
}
