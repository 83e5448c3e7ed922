package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWebsiteLeadSync = "leads.website.sync"

// WebsiteLeadSyncPayload parameterizes one scheduled sync run. A nil
// MinLeadID means the configured default floor applies.
type WebsiteLeadSyncPayload struct {
	MinLeadID *int64 `json:"minLeadId,omitempty"`
}

func NewWebsiteLeadSyncTask(payload WebsiteLeadSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebsiteLeadSync, data), nil
}

func ParseWebsiteLeadSyncPayload(task *asynq.Task) (WebsiteLeadSyncPayload, error) {
	var payload WebsiteLeadSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WebsiteLeadSyncPayload{}, err
	}
	return payload, nil
}
