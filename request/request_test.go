package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PayRam/go-dbquery/query"
	"github.com/PayRam/go-dbquery/queryerr"
	"github.com/PayRam/go-dbquery/utils"
)

func TestResolveLimit(t *testing.T) {
	testCases := []struct {
		name    string
		limit   *int
		want    int
		wantErr bool
	}{
		{name: "default", limit: nil, want: DefaultLimit},
		{name: "min", limit: utils.IntPtr(1), want: 1},
		{name: "max", limit: utils.IntPtr(100), want: 100},
		{name: "zero", limit: utils.IntPtr(0), wantErr: true},
		{name: "negative", limit: utils.IntPtr(-5), wantErr: true},
		{name: "above max", limit: utils.IntPtr(101), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveLimit(OpQueryFAQ, tc.limit)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, queryerr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQueryMenuRequest_Validate(t *testing.T) {
	_, err := QueryMenuRequest{IsDisable: utils.StringPtr("2")}.Validate()
	assert.True(t, queryerr.IsValidation(err))

	limit, err := QueryMenuRequest{IsDisable: utils.StringPtr(MenuDisabled)}.Validate()
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, limit)

	_, err = QueryMenuRequest{Limit: utils.IntPtr(1000)}.Validate()
	assert.True(t, queryerr.IsValidation(err))
}

func TestApplyQueryFAQRequest_Order(t *testing.T) {
	filters := ApplyQueryFAQRequest(QueryFAQRequest{
		Question:    utils.StringPtr("battery"),
		IssueModule: utils.StringPtr("charging"),
	})

	require.Len(t, filters, 3)
	assert.Equal(t, "question", filters[0].Column)
	assert.Equal(t, query.Contains, filters[0].Op)
	assert.True(t, filters[0].Active)
	assert.False(t, filters[1].Active)
	assert.Equal(t, "issue_module", filters[2].Column)
	assert.True(t, filters[2].Active)
}

func TestApplyQueryFAQRequest_NormalizesKeyword(t *testing.T) {
	decomposed := "cafe\u0301"
	filters := ApplyQueryFAQRequest(QueryFAQRequest{Question: &decomposed})

	assert.Equal(t, "caf\u00e9", filters[0].Value)
}

func TestApplyQueryMenuRequest_PresenceSemantics(t *testing.T) {
	var root int64
	filters := ApplyQueryMenuRequest(QueryMenuRequest{
		MenuName:  utils.StringPtr(""),
		ParentID:  &root,
		IsDisable: utils.StringPtr(MenuEnabled),
	})

	require.Len(t, filters, 4)
	assert.False(t, filters[0].Active, "empty keyword is ignored")
	assert.True(t, filters[1].Active, "parent_id 0 still filters")
	assert.Equal(t, int64(0), filters[1].Value)
	assert.False(t, filters[2].Active)
	assert.True(t, filters[3].Active)
}
