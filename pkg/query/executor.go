// Package query executes analyst SQL against the warehouse and shapes the
// results for LLM consumption.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/analyza-ai/analyza/pkg/database"
)

// DefaultMaxRows caps how many rows are rendered into the markdown table.
const DefaultMaxRows = 1000

// Executor runs read-only SQL on the warehouse pool and formats results as
// markdown tables the model can read back.
type Executor struct {
	client  *database.Client
	maxRows int
	logger  *slog.Logger
}

// NewExecutor creates an executor over the shared database client.
func NewExecutor(client *database.Client) *Executor {
	return &Executor{
		client:  client,
		maxRows: DefaultMaxRows,
		logger:  slog.Default().With("component", "query"),
	}
}

// ExecuteSQL runs the query and returns the explanation followed by a
// markdown table of the results. Only read statements are admitted; the
// assistant has no business mutating the warehouse.
func (e *Executor) ExecuteSQL(ctx context.Context, sqlQuery, explanation string) (string, error) {
	if err := ensureReadOnly(sqlQuery); err != nil {
		return "", err
	}

	e.logger.Info("Executing query", "query", truncateQuery(sqlQuery))

	rows, err := e.client.Pool().Query(ctx, sqlQuery)
	if err != nil {
		return "", fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	table, rowCount, err := formatRows(rows, e.maxRows)
	if err != nil {
		return "", fmt.Errorf("query execution failed: %w", err)
	}

	e.logger.Info("Query completed successfully", "rows", rowCount)
	return explanation + "\n\n**Table Data:**\n\n" + table, nil
}

var writeKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create", "truncate", "grant", "revoke", "copy", "merge",
}

// ensureReadOnly rejects statements that are not plain reads. The check is on
// the leading keyword; the warehouse role is additionally read-only.
func ensureReadOnly(sqlQuery string) error {
	trimmed := strings.ToLower(strings.TrimSpace(sqlQuery))
	if trimmed == "" {
		return fmt.Errorf("query execution failed: empty SQL statement")
	}
	if strings.HasPrefix(trimmed, "select") || strings.HasPrefix(trimmed, "with") || strings.HasPrefix(trimmed, "explain") {
		return nil
	}
	for _, kw := range writeKeywords {
		if strings.HasPrefix(trimmed, kw) {
			return fmt.Errorf("query execution failed: statement %q is not permitted, only read queries are allowed", kw)
		}
	}
	return fmt.Errorf("query execution failed: only SELECT statements are allowed")
}

func truncateQuery(q string) string {
	if len(q) > 100 {
		return q[:100] + "..."
	}
	return q
}
