package main

import (
	"path/filepath"
	"testing"

	atlas "ariga.io/atlas/sql/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCmd(t *testing.T) {
	path := project(t, `
script: shop.yaml
target: out
migrations_dir: sql
model_package: model
`)
	out, err := run(t, "generate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "202610171200 AddAddress: 3 up, 3 down operations\n")
	assert.Contains(t, out, "202610171400 RenameInvoice: 1 up, 1 down operations\n")
	assert.Contains(t, out, "6 plans\n")

	dir := filepath.Dir(path)
	assert.FileExists(t, filepath.Join(dir, "out", "202610171300_linkinvoices.go"))
	assert.FileExists(t, filepath.Join(dir, "out", "model", "bill.go"))
	assert.FileExists(t, filepath.Join(dir, "sql", "202610171300_LinkInvoices.sql"))
	assert.FileExists(t, filepath.Join(dir, "sql", atlas.HashFileName))
}

func TestGenerateCmd_MissingScript(t *testing.T) {
	path := project(t, "script: missing.yaml\n")
	_, err := run(t, "generate", "--config", path)
	require.Error(t, err)
}
