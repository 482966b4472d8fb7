package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitest "github.com/leapstack-labs/freebies/internal/cli/testutil"
	"github.com/leapstack-labs/freebies/internal/testutil"
	"github.com/leapstack-labs/freebies/pkg/core"
)

func TestCompanyList(t *testing.T) {
	useSeededDB(t)

	t.Run("markdown when piped", func(t *testing.T) {
		out, err := execute(t, NewCompanyCommand(), "list")
		require.NoError(t, err)
		assert.Contains(t, out, "| id | name | founding_year |")
		assert.Contains(t, out, "| 1 | ODM | 2005 |")
		assert.Contains(t, out, "| 3 | DCP | 2025 |")
		clitest.AssertNoANSI(t, out)
	})

	t.Run("json format", func(t *testing.T) {
		out, err := execute(t, NewCompanyCommand(), "list", "--format", "json")
		require.NoError(t, err)

		var companies []core.Company
		require.NoError(t, json.Unmarshal([]byte(out), &companies))
		require.Len(t, companies, 3)
		assert.Equal(t, "UDA", companies[1].Name)
		assert.Equal(t, 2022, companies[1].FoundingYear)
	})

	t.Run("text table", func(t *testing.T) {
		out, err := execute(t, NewCompanyCommand(), "list", "--format", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "FOUNDING_YEAR")
		assert.Contains(t, out, "(3 rows)")
	})
}

func TestCompanyShow(t *testing.T) {
	useSeededDB(t)
	useOutput(t, "json")

	out, err := execute(t, NewCompanyCommand(), "show", "UDA")
	require.NoError(t, err)

	var detail struct {
		Name     string `json:"name"`
		Devs     []core.Dev
		Freebies []struct {
			ItemName string `json:"item_name"`
			DevName  string `json:"dev_name"`
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "UDA", detail.Name)
	require.Len(t, detail.Devs, 2)
	assert.Equal(t, "Raila", detail.Devs[0].Name)
	assert.Equal(t, "Ruto", detail.Devs[1].Name)
	require.Len(t, detail.Freebies, 2)
	assert.Equal(t, "CDF funds", detail.Freebies[0].ItemName)
	assert.Equal(t, "Raila", detail.Freebies[0].DevName)
}

func TestCompanyShow_Markdown(t *testing.T) {
	useSeededDB(t)

	out, err := execute(t, NewCompanyCommand(), "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "# ODM")
	assert.Contains(t, out, "- **Total given**: KSh 4,000,000")
	assert.Contains(t, out, "## Devs")
	assert.Contains(t, out, "Hustler funds")
	clitest.AssertValidMarkdown(t, out)
}

func TestCompanyShow_NotFound(t *testing.T) {
	useSeededDB(t)

	_, err := execute(t, NewCompanyCommand(), "show", "KANU")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCompanyDevs(t *testing.T) {
	useSeededDB(t)

	out, err := execute(t, NewCompanyCommand(), "devs", "ODM", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "id,name")
	assert.Contains(t, out, "1,Raila")
	assert.Contains(t, out, "2,Ruto")
	assert.NotContains(t, out, "Rigachi")
}

func TestCompanyOldest(t *testing.T) {
	useSeededDB(t)

	out, err := execute(t, NewCompanyCommand(), "oldest")
	require.NoError(t, err)
	assert.Contains(t, out, "- **Name**: ODM")
	assert.Contains(t, out, "- **Founded**: 2005")
}

func TestCompanyOldest_Empty(t *testing.T) {
	useDB(t, testutil.NewEmptyDB(t))

	_, err := execute(t, NewCompanyCommand(), "oldest")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCompanyAdd(t *testing.T) {
	useSeededDB(t)
	useOutput(t, "json")

	out, err := execute(t, NewCompanyCommand(), "add", "KANU", "--founded", "1960")
	require.NoError(t, err)

	var c core.Company
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, int64(4), c.ID)
	assert.Equal(t, "KANU", c.Name)

	out, err = execute(t, NewCompanyCommand(), "oldest")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "KANU"`)
}

func TestCompanyDelete(t *testing.T) {
	t.Run("refuses without cascade", func(t *testing.T) {
		useSeededDB(t)

		_, err := execute(t, NewCompanyCommand(), "delete", "DCP")
		require.ErrorIs(t, err, core.ErrHasFreebies)
		assert.Contains(t, err.Error(), "--cascade")

		out, err := execute(t, NewCompanyCommand(), "list", "--format", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "DCP")
	})

	t.Run("cascade removes freebies", func(t *testing.T) {
		useSeededDB(t)

		out, err := execute(t, NewCompanyCommand(), "delete", "DCP", "--cascade")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted company DCP and 1 freebie(s)")

		out, err = execute(t, NewFreebieCommand(), "list", "--format", "csv")
		require.NoError(t, err)
		assert.NotContains(t, out, "DCP Tanks")
	})
}
