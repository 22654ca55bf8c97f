package index_test

import (
	"testing"

	"github.com/syssam/evolve/schema/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Name("IX_Order"), index.Unique(), index.Order(2))
	require.NotNil(t, idx)
	assert.Equal(t, "IX_Order", idx.Name)
	assert.True(t, idx.Unique)
	assert.False(t, idx.Clustered)
	require.NotNil(t, idx.Order)
	assert.Equal(t, 2, *idx.Order)
}

func TestCopy(t *testing.T) {
	t.Parallel()

	idx := index.New(index.Order(1))
	cp := idx.Copy()
	*cp.Order = 5
	assert.Equal(t, 1, *idx.Order)

	var nilIdx *index.Index
	assert.Nil(t, nilIdx.Copy())
}

func TestNameOr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		idx     *index.Index
		columns []string
		want    string
	}{
		{name: "nil", idx: nil, columns: []string{"CustomerId"}, want: "IX_CustomerId"},
		{name: "unnamed", idx: index.New(index.Unique()), columns: []string{"A", "B"}, want: "IX_A_B"},
		{name: "named", idx: index.New(index.Name("by_customer")), columns: []string{"CustomerId"}, want: "by_customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.idx.NameOr(tt.columns...))
		})
	}
}
