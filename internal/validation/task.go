package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"task-manager/internal/models"
)

const TitleMaxLength = 100

// Accepted due date formats. Clients usually send RFC 3339
// but the date picker submits a bare calendar date.
var dueDateFormats = []string{time.RFC3339, "2006-01-02"}

// TaskCreate is a fully validated candidate for task creation.
type TaskCreate struct {
	Title    string
	Category string
	DueDate  *time.Time
	Priority *int
}

// TaskPatch carries only the fields present in a partial update.
// A nil pointer with its Set flag raised means an explicit null:
// the field is cleared rather than left untouched.
type TaskPatch struct {
	Title       *string
	Category    *string
	DueDate     *time.Time
	DueDateSet  bool
	Priority    *int
	PrioritySet bool
	Completed   *bool
}

func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Category == nil &&
		!p.DueDateSet &&
		!p.PrioritySet &&
		p.Completed == nil
}

// ValidateCreate checks a raw JSON candidate against the full task
// schema and collects all violations instead of stopping at the first.
// Unknown fields are ignored. The returned error, if any, is *Errors.
func ValidateCreate(data []byte, now time.Time) (*TaskCreate, error) {
	fields, err := decodeCandidate(data)
	if err != nil {
		return nil, err
	}

	verr := &Errors{}
	out := &TaskCreate{}

	raw, ok := presentField(fields, "title")
	if !ok {
		verr.add("title", "title is required")
	} else {
		out.Title = parseTitle(raw, verr)
	}

	raw, ok = presentField(fields, "category")
	if !ok {
		verr.add("category", "category is required")
	} else {
		out.Category = parseCategory(raw, verr)
	}

	if raw, ok = presentField(fields, "dueDate"); ok {
		out.DueDate = parseDueDate(raw, verr)
		if out.DueDate != nil && out.DueDate.Before(startOfDay(now)) {
			verr.add("dueDate", "due date must not be in the past")
		}
	}

	if raw, ok = presentField(fields, "priority"); ok {
		out.Priority = parsePriority(raw, verr)
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidatePartial applies the per-field task rules only to the fields
// present in the candidate. Explicit nulls on dueDate and priority
// clear the stored value; absent fields stay untouched. A past due
// date is accepted here: rescheduling an overdue task backwards is
// a legitimate edit.
func ValidatePartial(data []byte) (*TaskPatch, error) {
	fields, err := decodeCandidate(data)
	if err != nil {
		return nil, err
	}

	verr := &Errors{}
	out := &TaskPatch{}

	if raw, ok := fields["title"]; ok {
		if isNull(raw) {
			verr.add("title", "title must not be null")
		} else {
			title := parseTitle(raw, verr)
			out.Title = &title
		}
	}

	if raw, ok := fields["category"]; ok {
		if isNull(raw) {
			verr.add("category", "category must not be null")
		} else {
			category := parseCategory(raw, verr)
			out.Category = &category
		}
	}

	if raw, ok := fields["dueDate"]; ok {
		out.DueDateSet = true
		if !isNull(raw) {
			out.DueDate = parseDueDate(raw, verr)
		}
	}

	if raw, ok := fields["priority"]; ok {
		out.PrioritySet = true
		if !isNull(raw) {
			out.Priority = parsePriority(raw, verr)
		}
	}

	if raw, ok := fields["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err != nil {
			verr.add("completed", "completed must be a boolean")
		} else {
			out.Completed = &completed
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeCandidate(data []byte) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &Errors{Fields: []FieldError{
			{Field: "body", Message: "request body must be a JSON object"},
		}}
	}
	return fields, nil
}

// presentField treats an explicit null the same as an absent field,
// which is what create semantics want for the optional fields.
func presentField(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func parseTitle(raw json.RawMessage, verr *Errors) string {
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		verr.add("title", "title must be a string")
		return ""
	}
	title = strings.TrimSpace(title)
	if title == "" {
		verr.add("title", "title is required")
	} else if len([]rune(title)) > TitleMaxLength {
		verr.add("title", fmt.Sprintf("title must be at most %d characters", TitleMaxLength))
	}
	return title
}

func parseCategory(raw json.RawMessage, verr *Errors) string {
	var category string
	if err := json.Unmarshal(raw, &category); err != nil {
		verr.add("category", "category must be a string")
		return ""
	}
	for _, allowed := range models.Categories() {
		if category == allowed {
			return category
		}
	}
	verr.add("category", "invalid category")
	return category
}

func parseDueDate(raw json.RawMessage, verr *Errors) *time.Time {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		verr.add("dueDate", "due date must be a date string")
		return nil
	}
	for _, format := range dueDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return &t
		}
	}
	verr.add("dueDate", "due date must be a valid date")
	return nil
}

func parsePriority(raw json.RawMessage, verr *Errors) *int {
	var priority int
	if err := json.Unmarshal(raw, &priority); err != nil {
		verr.add("priority", "priority must be an integer")
		return nil
	}
	if priority < models.PriorityLow || priority > models.PriorityHigh {
		verr.add("priority", "priority must be 1, 2 or 3")
		return nil
	}
	return &priority
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
