package migrate_test

import (
	"testing"

	"github.com/syssam/evolve/migrate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tables   []*migrate.TableMapping
		errors   []string
		warnings []string
	}{
		{
			name: "valid",
			tables: []*migrate.TableMapping{
				{Class: "A", Name: "As", Columns: []migrate.ColumnMapping{{Property: "Id", Name: "Id", Type: "int"}}, PrimaryKey: []string{"Id"}},
			},
		},
		{
			name: "duplicate_table",
			tables: []*migrate.TableMapping{
				{Class: "A", Name: "T", Columns: []migrate.ColumnMapping{{Name: "Id"}}, PrimaryKey: []string{"Id"}},
				{Class: "B", Name: "T", Columns: []migrate.ColumnMapping{{Name: "Id"}}, PrimaryKey: []string{"Id"}},
			},
			errors: []string{"T: duplicate table name"},
		},
		{
			name: "duplicate_column_and_missing_key",
			tables: []*migrate.TableMapping{
				{Class: "A", Name: "As", Columns: []migrate.ColumnMapping{{Name: "X"}, {Name: "X"}}},
			},
			errors:   []string{"As.X: duplicate column name"},
			warnings: []string{"As: table has no primary key"},
		},
		{
			name: "dangling_foreign_key",
			tables: []*migrate.TableMapping{
				{
					Class: "A", Name: "As",
					Columns:     []migrate.ColumnMapping{{Name: "Id"}, {Name: "B_Id"}},
					PrimaryKey:  []string{"Id"},
					ForeignKeys: []migrate.ForeignKeyMapping{{Columns: []string{"B_Id"}, PrincipalTable: "Bs", PrincipalColumns: []string{"Id"}}},
				},
			},
			errors: []string{`As: foreign key references non-existent table "Bs"`},
		},
		{
			name: "unknown_principal_column",
			tables: []*migrate.TableMapping{
				{Class: "B", Name: "Bs", Columns: []migrate.ColumnMapping{{Name: "Id"}}, PrimaryKey: []string{"Id"}},
				{
					Class: "A", Name: "As",
					Columns:     []migrate.ColumnMapping{{Name: "Id"}, {Name: "B_Id"}},
					PrimaryKey:  []string{"Id"},
					ForeignKeys: []migrate.ForeignKeyMapping{{Columns: []string{"B_Id"}, PrincipalTable: "Bs", PrincipalColumns: []string{"Key"}}},
				},
			},
			errors: []string{"As: foreign key references non-existent column Bs.Key"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := migrate.ValidateMapping(migrate.NewStaticMapping(tt.tables...))
			assert.Equal(t, tt.errors, messages(result.Errors))
			assert.Equal(t, tt.warnings, messages(result.Warnings))
			if len(tt.errors) == 0 {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestValidateDiff(t *testing.T) {
	t.Parallel()

	before := migrate.NewStaticMapping(
		&migrate.TableMapping{Class: "A", Name: "As", PrimaryKey: []string{"Id"}, Columns: []migrate.ColumnMapping{
			{Property: "Id", Name: "Id", Type: "int"},
			{Property: "Name", Name: "Name", Type: "nvarchar(max)", Nullable: true},
			{Property: "Note", Name: "Note", Type: "nvarchar(max)", Nullable: true},
		}},
		&migrate.TableMapping{Class: "B", Name: "Bs"},
	)
	after := migrate.NewStaticMapping(
		&migrate.TableMapping{Class: "A", Name: "Alphas", PrimaryKey: []string{"Id"}, Columns: []migrate.ColumnMapping{
			{Property: "Id", Name: "Id", Type: "bigint"},
			{Property: "Name", Name: "Name", Type: "nvarchar(max)"},
		}},
	)
	result := migrate.ValidateDiff(before, after)
	require.False(t, result.HasErrors())
	assert.True(t, result.HasBreakingChanges())
	assert.Equal(t, []string{
		"As.Id: column type changing from int to bigint",
		"As.Name: column changing from NULL to NOT NULL may fail if column has NULL values",
		"As.Note: column will be dropped",
		"Bs: table will be dropped",
	}, messages(result.Warnings))
	assert.Contains(t, result.String(), "[BREAKING]")
}

func TestValidationResult_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No issues found", (&migrate.ValidationResult{}).String())
}

func messages(errs []*migrate.ValidationError) []string {
	if len(errs) == 0 {
		return nil
	}
	ms := make([]string, len(errs))
	for i, e := range errs {
		ms[i] = e.Error()
	}
	return ms
}
