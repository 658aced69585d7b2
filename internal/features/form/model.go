package form

import (
	"fmt"
	"slices"
	"strings"

	"chums-admin/pkg/editpanel"
)

type FieldType string

const (
	FieldTypeTextbox        FieldType = "Textbox"
	FieldTypeWholeNumber    FieldType = "Whole Number"
	FieldTypeDecimal        FieldType = "Decimal"
	FieldTypeDate           FieldType = "Date"
	FieldTypeYesNo          FieldType = "Yes/No"
	FieldTypeEmail          FieldType = "Email"
	FieldTypePhoneNumber    FieldType = "Phone Number"
	FieldTypeTextArea       FieldType = "Text Area"
	FieldTypeMultipleChoice FieldType = "Multiple Choice"
)

// FieldTypes lists the question types in the order the editor offers them.
var FieldTypes = []FieldType{
	FieldTypeTextbox,
	FieldTypeWholeNumber,
	FieldTypeDecimal,
	FieldTypeDate,
	FieldTypeYesNo,
	FieldTypeEmail,
	FieldTypePhoneNumber,
	FieldTypeTextArea,
	FieldTypeMultipleChoice,
}

func (t FieldType) Valid() bool {
	return slices.Contains(FieldTypes, t)
}

type Form struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
}

type Choice struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Question belongs to a form; its sort order is its position in the form's list.
type Question struct {
	ID          string    `json:"id,omitempty"`
	FormID      string    `json:"formId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Placeholder string    `json:"placeholder"`
	FieldType   FieldType `json:"fieldType"`
	Choices     []Choice  `json:"choices,omitempty"`
}

// AddChoice appends a choice whose value defaults to its text.
func (q *Question) AddChoice(text, value string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("choice text is required")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		value = text
	}
	q.Choices = append(q.Choices, Choice{Value: value, Text: text})
	return nil
}

func (q *Question) RemoveChoice(index int) error {
	if index < 0 || index >= len(q.Choices) {
		return fmt.Errorf("no choice at %d", index)
	}
	q.Choices = slices.Delete(q.Choices, index, index+1)
	return nil
}

const (
	SubEditorChoices     = "choices"
	SubEditorPlaceholder = "placeholder"
)

// SubEditor names the type-specific part of the question editor.
func (q Question) SubEditor() string {
	if q.FieldType == FieldTypeMultipleChoice {
		return SubEditorChoices
	}
	return SubEditorPlaceholder
}

type QuestionRow struct {
	Index       int       `json:"index"`
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	FieldType   FieldType `json:"fieldType"`
	CanMoveUp   bool      `json:"canMoveUp"`
	CanMoveDown bool      `json:"canMoveDown"`
}

// ReorderFailure is a background sort command the remote side rejected.
type ReorderFailure struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
	Error     string `json:"error"`
}

// QuestionList is the questions table. Questions carries the full order so the
// client can send it back with the next reorder.
type QuestionList struct {
	Rows        []QuestionRow    `json:"rows"`
	Questions   []Question       `json:"questions"`
	Placeholder string           `json:"placeholder,omitempty"`
	Failures    []ReorderFailure `json:"failures,omitempty"`
}

const EmptyQuestionsMessage = "No custom questions have been created yet. Questions will be listed here."

type FormPage struct {
	Form      Form         `json:"form"`
	Questions QuestionList `json:"questions"`
}

// QuestionEditor is the edit panel with the type-specific sub-editor.
type QuestionEditor struct {
	editpanel.View[Question]
	SubEditor  string      `json:"subEditor"`
	FieldTypes []FieldType `json:"fieldTypes"`
}

// ReorderRequest moves the question at Index one step. Questions is the
// caller's current order; when empty the order is loaded from the remote API.
// Reconcile waits for the sort command and returns the server's order.
type ReorderRequest struct {
	Questions []Question `json:"questions"`
	Index     int        `json:"index"`
	Direction string     `json:"direction"`
	Reconcile bool       `json:"reconcile"`
}

// ChoiceRequest edits the choices of a multiple-choice question draft.
type ChoiceRequest struct {
	Question Question `json:"question"`
	Text     string   `json:"text"`
	Value    string   `json:"value"`
	Remove   *int     `json:"remove,omitempty"`
}
