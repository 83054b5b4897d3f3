package ocr

import (
	"encoding/json"
	"fmt"
	"time"
)

// Job statuses reported by the OCR service
const (
	StatusSubmitted  = "SUBMITTED"
	StatusInProgress = "IN_PROGRESS"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

// DocumentLocation identifies the analyzed object in a bucket
type DocumentLocation struct {
	S3Bucket     string `json:"S3Bucket"`
	S3ObjectName string `json:"S3ObjectName"`
}

// Notification is the completion message the OCR service publishes when a
// text-detection job finishes.
type Notification struct {
	JobID            string           `json:"JobId"`
	Status           string           `json:"Status"`
	API              string           `json:"API,omitempty"`
	JobTag           string           `json:"JobTag,omitempty"`
	Timestamp        int64            `json:"Timestamp"`
	DocumentLocation DocumentLocation `json:"DocumentLocation"`
}

// snsEnvelope is the queue/topic wrapper around a notification message
type snsEnvelope struct {
	Records []struct {
		Sns struct {
			Message string `json:"Message"`
		} `json:"Sns"`
	} `json:"Records"`
}

// DecodeNotification parses a completion message. Both the bare message
// and a topic delivery envelope (Records[0].Sns.Message) are accepted.
func DecodeNotification(data []byte) (*Notification, error) {
	var env snsEnvelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Records) > 0 && env.Records[0].Sns.Message != "" {
		data = []byte(env.Records[0].Sns.Message)
	}

	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decoding notification: %w", err)
	}
	if n.JobID == "" {
		return nil, fmt.Errorf("%w: missing JobId", ErrInvalidNotification)
	}
	return &n, nil
}

// DocumentPath returns the s3://bucket/key path of the analyzed document
func (n *Notification) DocumentPath() string {
	return fmt.Sprintf("s3://%s/%s", n.DocumentLocation.S3Bucket, n.DocumentLocation.S3ObjectName)
}

// CompletedAt converts the millisecond timestamp to a UTC time
func (n *Notification) CompletedAt() time.Time {
	return time.UnixMilli(n.Timestamp).UTC()
}

// Succeeded reports whether the job finished successfully
func (n *Notification) Succeeded() bool {
	return n.Status == StatusSucceeded
}
