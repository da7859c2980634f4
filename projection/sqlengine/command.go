package sqlengine

import (
	"errors"
	"slices"

	"github.com/doug-martin/goqu/v9"
)

// Command is one SQL statement produced by a projection, e.g. an INSERT into a read model table.
//
// A Command is immutable. If it could not be rendered, Err returns the reason and the Command
// fails when it is materialized, which stops the projection before anything of it is executed.
type Command struct {
	text string
	args []any
	err  error
}

// NewCommand creates a Command from SQL text and bind arguments.
// The placeholders in text must match the dialect of the Database it is executed on.
func NewCommand(text string, args ...any) Command {
	if text == "" {
		return Command{err: ErrEmptyCommandText}
	}

	return Command{text: text, args: slices.Clone(args)}
}

// Text returns the SQL text.
func (c Command) Text() string {
	return c.text
}

// Args returns a copy of the bind arguments.
func (c Command) Args() []any {
	return slices.Clone(c.args)
}

// Err returns the error that occurred while building the Command, if any.
func (c Command) Err() error {
	return c.err
}

// CommandBuilder renders Commands with goqu for one SQL dialect. Values are always passed as bind arguments.
type CommandBuilder struct {
	dialect goqu.DialectWrapper
}

// NewCommandBuilder creates a CommandBuilder for DialectPostgres or DialectSQLite.
func NewCommandBuilder(dialect string) (CommandBuilder, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return CommandBuilder{}, ErrUnsupportedDialect
	}

	return CommandBuilder{dialect: goqu.Dialect(dialect)}, nil
}

// Insert renders an INSERT of one row into table.
func (b CommandBuilder) Insert(table string, record goqu.Record) Command {
	if err := validateTarget(table, len(record)); err != nil {
		return Command{err: err}
	}

	return toCommand(b.dialect.Insert(table).Rows(record).Prepared(true).ToSQL())
}

// Update renders an UPDATE of the columns in record for the rows of table matching where.
func (b CommandBuilder) Update(table string, record goqu.Record, where goqu.Ex) Command {
	if err := validateTarget(table, len(record)); err != nil {
		return Command{err: err}
	}

	if len(where) == 0 {
		return Command{err: errors.Join(ErrBuildingCommandFailed, ErrMissingWhereClause)}
	}

	return toCommand(b.dialect.Update(table).Set(record).Where(where).Prepared(true).ToSQL())
}

// Delete renders a DELETE of the rows of table matching where.
func (b CommandBuilder) Delete(table string, where goqu.Ex) Command {
	if err := validateTarget(table, 1); err != nil {
		return Command{err: err}
	}

	if len(where) == 0 {
		return Command{err: errors.Join(ErrBuildingCommandFailed, ErrMissingWhereClause)}
	}

	return toCommand(b.dialect.Delete(table).Where(where).Prepared(true).ToSQL())
}

func validateTarget(table string, columnCount int) error {
	if table == "" {
		return errors.Join(ErrBuildingCommandFailed, ErrEmptyTableName)
	}

	if columnCount == 0 {
		return errors.Join(ErrBuildingCommandFailed, ErrEmptyRecord)
	}

	return nil
}

func toCommand(text string, args []any, toSQLErr error) Command {
	if toSQLErr != nil {
		return Command{err: errors.Join(ErrBuildingCommandFailed, toSQLErr)}
	}

	return Command{text: text, args: args}
}
