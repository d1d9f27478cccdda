package jobstore

import "time"

type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusError      Status = "ERROR"
)

// Job is the audit record of one derivation. It never holds the seed or the
// derived password.
type Job struct {
	ID          string    `bson:"_id" json:"id"`
	RequestId   string    `bson:"request_id" json:"requestId"`
	Status      Status    `bson:"status" json:"status"`
	Length      uint64    `bson:"length" json:"length"`
	Repetitions uint64    `bson:"repetitions" json:"repetitions"`
	Workers     uint64    `bson:"workers" json:"workers"`
	Algorithm   string    `bson:"algorithm" json:"algorithm"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	FinishedAt  time.Time `bson:"finished_at,omitempty" json:"finishedAt,omitzero"`
	ErrorReason string    `bson:"error_reason,omitempty" json:"errorReason,omitempty"`
}

func (j *Job) Copy() *Job {
	c := *j
	return &c
}

func (j *Job) Duration() time.Duration {
	if j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.CreatedAt)
}
