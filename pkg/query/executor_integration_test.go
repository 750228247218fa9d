package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyza-ai/analyza/pkg/database"
	"github.com/analyza-ai/analyza/pkg/query"
	"github.com/analyza-ai/analyza/test/util"
)

func setupLoansTable(t *testing.T) *query.Executor {
	t.Helper()
	ctx := context.Background()
	pool := util.SetupTestPool(t)

	_, err := pool.Exec(ctx, `
		CREATE TABLE loans (
			id serial PRIMARY KEY,
			group_name text,
			amount numeric,
			note text
		)`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO loans (group_name, amount, note) VALUES
			('001.TaskUs, Inc.', 150000, 'priority | escalated'),
			('Infosys Limited', 200000, NULL),
			('Accenture PLC', 120000, 'standard')`)
	require.NoError(t, err)

	return query.NewExecutor(database.NewClientFromPool(pool))
}

func TestExecuteSQLFormatsMarkdown(t *testing.T) {
	executor := setupLoansTable(t)

	out, err := executor.ExecuteSQL(context.Background(),
		"SELECT group_name, amount, note FROM loans ORDER BY id",
		"Lists all loans.")
	require.NoError(t, err)

	assert.Contains(t, out, "Lists all loans.\n\n**Table Data:**\n\n")
	assert.Contains(t, out, "| group_name | amount | note |")
	assert.Contains(t, out, "| --- | --- | --- |")
	assert.Contains(t, out, "| Infosys Limited | 200000 | NULL |")
	// pipe characters in data must not break the table
	assert.Contains(t, out, `priority \| escalated`)
}

func TestExecuteSQLEmptyResult(t *testing.T) {
	executor := setupLoansTable(t)

	out, err := executor.ExecuteSQL(context.Background(),
		"SELECT group_name FROM loans WHERE amount > 1000000",
		"Loans above one million.")
	require.NoError(t, err)

	assert.Contains(t, out, "| No Data | Query returned no results |")
}

func TestExecuteSQLRejectsWrites(t *testing.T) {
	executor := setupLoansTable(t)

	_, err := executor.ExecuteSQL(context.Background(), "DELETE FROM loans", "Removes everything.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not permitted")
}

func TestExecuteSQLInvalidQuery(t *testing.T) {
	executor := setupLoansTable(t)

	_, err := executor.ExecuteSQL(context.Background(), "SELECT no_such_column FROM loans", "Broken.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query execution failed")
}

func TestResolveName(t *testing.T) {
	executor := setupLoansTable(t)

	match, err := executor.ResolveName(context.Background(), "infosys", "group_name", "loans")
	require.NoError(t, err)
	assert.Equal(t, "Infosys Limited", match)

	match, err = executor.ResolveName(context.Background(), "task us inc", "group_name", "loans")
	require.NoError(t, err)
	assert.Equal(t, "001.TaskUs, Inc.", match)
}

func TestResolveNameRejectsBadIdentifiers(t *testing.T) {
	executor := setupLoansTable(t)

	_, err := executor.ResolveName(context.Background(), "x", "group_name; DROP TABLE loans", "loans")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column identifier")

	_, err = executor.ResolveName(context.Background(), "x", "group_name", "loans WHERE 1=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table identifier")
}

func TestResolveNameNoValues(t *testing.T) {
	ctx := context.Background()
	pool := util.SetupTestPool(t)
	_, err := pool.Exec(ctx, "CREATE TABLE empty_groups (group_name text)")
	require.NoError(t, err)

	executor := query.NewExecutor(database.NewClientFromPool(pool))
	match, err := executor.ResolveName(ctx, "anything", "group_name", "empty_groups")
	require.NoError(t, err)
	assert.Equal(t, "", match)
}
