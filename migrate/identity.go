package migrate

// ExpandIdentity lowers op to the ordered sequence that rebuilds the principal
// column with the requested identity policy:
//
//  1. drop every dependent foreign key
//  2. drop the primary key
//  3. rename the column to its temporary name
//  4. add the column with the requested policy
//  5. repoint dependents (on) or copy the old values (off)
//  6. drop the temporary column
//  7. add the primary key
//  8. add the dependent foreign keys back
//
// Switched off, step 4 adds the column as nullable so that tables with rows
// accept it, and step 5 restores NOT NULL once the values are copied.
//
// The order is significant and must be executed as a whole.
func ExpandIdentity(op *Identity) []Operation {
	var (
		table  = op.PrincipalTable
		column = op.PrincipalColumn
		temp   = TempColumn(column.Name)
		pk     = PrimaryKeyName(table)
		fks    = make([]ForeignKey, len(op.Dependents))
		ops    = make([]Operation, 0, 7+3*len(op.Dependents))
	)
	column.Identity = op.On
	added := column
	if !op.On {
		added.Nullable = true
	}
	for i, d := range op.Dependents {
		fks[i] = ForeignKey{
			Name:             d.ForeignKey,
			DependentTable:   d.DependentTable,
			DependentColumns: []string{d.ForeignKeyColumn},
			PrincipalTable:   table,
			PrincipalColumns: []string{column.Name},
		}
		if fks[i].Name == "" {
			fks[i].Name = ForeignKeyName(d.DependentTable, table, d.ForeignKeyColumn)
		}
	}
	for _, fk := range fks {
		ops = append(ops, &DropForeignKey{ForeignKey: fk})
	}
	ops = append(ops,
		&DropPrimaryKey{Table: table, Name: pk},
		&RenameColumn{Table: table, Old: column.Name, New: temp},
		&AddColumn{Table: table, Column: added},
	)
	if op.On {
		for _, d := range op.Dependents {
			ops = append(ops, &SQL{Statement: RepointSQL(table, column.Name, d)})
		}
	} else {
		ops = append(ops, &SQL{Statement: CopyIdentitySQL(table, column.Name)})
		if !column.Nullable {
			ops = append(ops, &SQL{Statement: RequireColumnSQL(table, column)})
		}
	}
	ops = append(ops,
		&DropColumn{Table: table, Column: temp},
		&AddPrimaryKey{Table: table, Name: pk, Columns: []string{column.Name}},
	)
	for _, fk := range fks {
		ops = append(ops, &AddForeignKey{ForeignKey: fk})
	}
	return ops
}
