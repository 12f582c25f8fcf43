package criteria

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

// DeletedAdvisory stays raised after a row deletion until the logic is edited.
const DeletedAdvisory = "Filter deleted. Please review and update the logic."

type State int

const (
	StateEmpty State = iota
	StateEditing
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Option func(*Builder)

// WithOnChange registers a callback receiving the full container after every edit.
func WithOnChange(fn func(models.FilterContainer)) Option {
	return func(b *Builder) { b.onChange = fn }
}

// WithOnLogicChange registers a callback that only sees logic which passed validation.
func WithOnLogicChange(fn func(string)) Option {
	return func(b *Builder) { b.onLogicChange = fn }
}

// WithAutoRenumber rewrites logic references when a row is deleted.
func WithAutoRenumber() Option {
	return func(b *Builder) { b.autoRenumber = true }
}

// WithAdvisory restores an advisory raised by an earlier edit of the same
// container, so it stays up until the logic is edited.
func WithAdvisory(msg string) Option {
	return func(b *Builder) { b.advisory = msg }
}

func WithIDGenerator(fn func() string) Option {
	return func(b *Builder) { b.newID = fn }
}

// Builder edits one FilterContainer. It is not safe for concurrent use.
type Builder struct {
	container models.FilterContainer
	fields    map[string]models.FieldMeta

	state    State
	logicErr error
	advisory string

	autoRenumber  bool
	onChange      func(models.FilterContainer)
	onLogicChange func(string)
	newID         func() string
}

func NewBuilder(container models.FilterContainer, fields []models.FieldMeta, opts ...Option) *Builder {
	b := &Builder{
		container: copyContainer(container),
		fields:    make(map[string]models.FieldMeta, len(fields)),
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, f := range fields {
		b.fields[f.Name] = f
	}
	for i := range b.container.Filters {
		if b.container.Filters[i].ID == "" {
			b.container.Filters[i].ID = b.newID()
		}
	}
	switch {
	case len(b.container.Filters) == 0:
		b.state = StateEmpty
	case b.advisory != "":
		b.state = StateInvalid
	default:
		b.state = StateEditing
	}
	return b
}

// Container returns a copy of the container being edited.
func (b *Builder) Container() models.FilterContainer {
	return copyContainer(b.container)
}

func (b *Builder) State() State { return b.state }

// LogicError is the last logic validation failure, or nil.
func (b *Builder) LogicError() error { return b.logicErr }

func (b *Builder) Advisory() string { return b.advisory }

// Message is the text to surface next to the logic field.
func (b *Builder) Message() string {
	if b.advisory != "" {
		return b.advisory
	}
	if b.logicErr != nil {
		return b.logicErr.Error()
	}
	return ""
}

// SetField picks a new field for row i, clearing its operator and value.
func (b *Builder) SetField(i int, field string) error {
	row, err := b.row(i)
	if err != nil {
		return err
	}
	row.Field = field
	row.Operator = ""
	row.Value = ""
	row.DataType = DataTypeString
	row.Options = nil
	if meta, ok := b.fields[field]; ok {
		if meta.Type != "" {
			row.DataType = meta.Type
		}
		row.Options = append([]models.PicklistOption(nil), meta.Options...)
	}
	b.emit()
	return nil
}

// SetOperator rejects operators outside the row's datatype set.
func (b *Builder) SetOperator(i int, operator string) error {
	row, err := b.row(i)
	if err != nil {
		return err
	}
	if operator != "" && !IsValidOperator(row.DataType, operator) {
		return errs.NewFieldValidationError("operator", fmt.Sprintf(
			"operator %q is not valid for %s fields", operator, row.DataType))
	}
	row.Operator = operator
	b.emit()
	return nil
}

func (b *Builder) SetValue(i int, value string) error {
	row, err := b.row(i)
	if err != nil {
		return err
	}
	row.Value = value
	b.emit()
	return nil
}

// SetLogic stores logic locally even when invalid; only valid logic reaches
// the OnLogicChange callback.
func (b *Builder) SetLogic(logic string) error {
	b.container.FilterLogic = logic
	b.advisory = ""
	b.logicErr = ValidateLogic(logic, len(b.container.Filters))

	if b.logicErr != nil {
		b.state = StateInvalid
	} else {
		b.state = StateValid
	}
	if len(b.container.Filters) == 0 && b.logicErr == nil {
		b.state = StateEmpty
	}

	b.emit()
	if b.logicErr == nil && b.onLogicChange != nil {
		b.onLogicChange(logic)
	}
	return b.logicErr
}

// AddRow appends a blank row and extends the logic with " AND n".
func (b *Builder) AddRow() {
	count := len(b.container.Filters)
	b.container.FilterLogic = extendLogic(b.container.FilterLogic, count)
	b.container.Filters = append(b.container.Filters, models.Filter{
		ID:       b.newID(),
		DataType: DataTypeString,
	})
	if b.state == StateEmpty {
		b.state = StateEditing
	}
	b.emit()
}

// DeleteRow removes row i. The logic is left untouched unless auto
// renumbering is enabled, and the advisory is raised either way when the
// logic may now be stale.
func (b *Builder) DeleteRow(i int) error {
	if _, err := b.row(i); err != nil {
		return err
	}
	before := b.container.Filters
	deletedID := before[i].ID

	after := make([]models.Filter, 0, len(before)-1)
	after = append(after, before[:i]...)
	after = append(after, before[i+1:]...)
	b.container.Filters = after

	b.advisory = DeletedAdvisory
	if b.autoRenumber {
		logic, stale := renumberLogic(b.container.FilterLogic, before, after, deletedID)
		b.container.FilterLogic = logic
		if !stale {
			b.advisory = ""
		}
	}

	switch {
	case len(after) == 0:
		b.state = StateEmpty
	case b.advisory != "":
		b.state = StateInvalid
	default:
		b.logicErr = ValidateLogic(b.container.FilterLogic, len(after))
		if b.logicErr != nil {
			b.state = StateInvalid
		} else {
			b.state = StateValid
		}
	}

	b.emit()
	return nil
}

func (b *Builder) row(i int) (*models.Filter, error) {
	if i < 0 || i >= len(b.container.Filters) {
		return nil, errs.NewValidationError(fmt.Sprintf("filter row %d does not exist", i+1))
	}
	return &b.container.Filters[i], nil
}

func (b *Builder) emit() {
	if b.onChange != nil {
		b.onChange(b.Container())
	}
}

func copyContainer(c models.FilterContainer) models.FilterContainer {
	out := c
	if c.Filters != nil {
		out.Filters = make([]models.Filter, len(c.Filters))
		for i, f := range c.Filters {
			out.Filters[i] = f
			if f.Options != nil {
				out.Filters[i].Options = append([]models.PicklistOption(nil), f.Options...)
			}
		}
	}
	return out
}
