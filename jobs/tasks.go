package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePODispatch renders a sent purchase order to PDF and mails it.
	TaskTypePODispatch = "po:dispatch"
	// TaskTypeArrivalScan sweeps BOMs for overdue inward shipments.
	TaskTypeArrivalScan = "bom:arrival_scan"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// PODispatchPayload identifies the purchase order to dispatch.
type PODispatchPayload struct {
	POID string `json:"poId"`
}

// NewPODispatchTask constructs the dispatch task.
func NewPODispatchTask(poID string) (*asynq.Task, error) {
	data, err := json.Marshal(PODispatchPayload{POID: poID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePODispatch, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// NewArrivalScanTask constructs the nightly scan task.
func NewArrivalScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeArrivalScan, nil, asynq.Queue(QueueDefault))
}

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data, asynq.Queue(QueueDefault)), nil
}
