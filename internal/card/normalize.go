package card

import (
	"errors"
	"time"
)

// Variant selects which raw field-naming scheme a workflow record uses.
type Variant string

const (
	// VariantMock records use camel-case keys (local fixtures).
	VariantMock Variant = "mock"
	// VariantLive records use the SAP export scheme (upper/underscored keys).
	VariantLive Variant = "live"
)

// ErrInvalidRecord is returned when the raw record is not a JSON object.
var ErrInvalidRecord = errors.New("card: workflow record is not an object")

// Workflow is the canonical, default-filled task record used for
// rendering. All fields are always populated.
type Workflow struct {
	TaskTitle     string
	Status        string
	InstanceID    string
	TaskDetails   string
	CreatedByName string
	CreatedOn     string
	InboxURL      string
}

// fieldMap names the raw record keys carrying each canonical field for
// one variant.
type fieldMap struct {
	taskTitle     string
	status        string
	instanceID    string
	taskDetails   string
	createdByName string
	createdOn     string
	inboxURL      string
}

// The live scheme is the one observed in SAP task exports. Status is
// the lone field SAP delivers without the underscored casing.
var fieldMaps = map[Variant]fieldMap{
	VariantMock: {
		taskTitle:     "TaskTitle",
		status:        "Status",
		instanceID:    "InstanceID",
		taskDetails:   "TaskDetails",
		createdByName: "CreatedByName",
		createdOn:     "CreatedOn",
		inboxURL:      "InboxURL",
	},
	VariantLive: {
		taskTitle:     "TASK_TITLE",
		status:        "Status",
		instanceID:    "INST_ID",
		taskDetails:   "TASKDETAILS",
		createdByName: "CREATED_BY_NAME",
		createdOn:     "CREATED_ON",
		inboxURL:      "INBOXURL",
	},
}

// Normalize maps a raw workflow record onto the canonical form,
// substituting a default for every field the record does not carry.
func Normalize(raw any, variant Variant, now time.Time) (Workflow, error) {
	rec, ok := raw.(map[string]any)
	if !ok || rec == nil {
		return Workflow{}, ErrInvalidRecord
	}

	fm, ok := fieldMaps[variant]
	if !ok {
		fm = fieldMaps[VariantLive]
	}

	return Workflow{
		TaskTitle:     stringField(rec, fm.taskTitle, "Untitled Task"),
		Status:        stringField(rec, fm.status, "READY"),
		InstanceID:    stringField(rec, fm.instanceID, "N/A"),
		TaskDetails:   stringField(rec, fm.taskDetails, ""),
		CreatedByName: stringField(rec, fm.createdByName, "Unknown"),
		CreatedOn:     stringField(rec, fm.createdOn, now.UTC().Format(time.RFC3339)),
		InboxURL:      stringField(rec, fm.inboxURL, "#"),
	}, nil
}

func stringField(rec map[string]any, key, fallback string) string {
	if v, ok := rec[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
