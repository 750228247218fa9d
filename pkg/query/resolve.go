package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// nonLetters strips everything that is not a lowercase letter during
// normalization, so matching ignores case, spacing and punctuation.
var nonLetters = regexp.MustCompile(`[^a-z]`)

func normalizeValue(s string) string {
	return nonLetters.ReplaceAllString(strings.ToLower(s), "")
}

// ResolveName maps a fuzzy user-entered string to the closest known value of
// a column. It loads the column's distinct values and scores each candidate
// by normalized edit-distance similarity. Returns "" when the column holds no
// values or nothing resembles the input.
func (e *Executor) ResolveName(ctx context.Context, userInput, column, table string) (string, error) {
	if !identifierPattern.MatchString(column) {
		return "", fmt.Errorf("invalid column identifier: %q", column)
	}
	if !identifierPattern.MatchString(table) {
		return "", fmt.Errorf("invalid table identifier: %q", table)
	}

	sqlQuery := fmt.Sprintf("SELECT DISTINCT %s FROM %s", column, table)
	e.logger.Info("Executing query", "query", truncateQuery(sqlQuery))

	rows, err := e.client.Pool().Query(ctx, sqlQuery)
	if err != nil {
		return "", fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v *string
		if err := rows.Scan(&v); err != nil {
			return "", fmt.Errorf("query execution failed: %w", err)
		}
		if v != nil && *v != "" {
			values = append(values, *v)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("query execution failed: %w", err)
	}

	if len(values) == 0 {
		e.logger.Warn("No values found for fuzzy matching", "table", table, "column", column)
		return "", nil
	}

	best := BestMatch(userInput, values)
	if best == "" {
		e.logger.Warn("No fuzzy match found", "input", userInput, "column", column)
		return "", nil
	}
	e.logger.Info("Resolved fuzzy input", "input", userInput, "match", best)
	return best, nil
}

// BestMatch returns the candidate with the highest normalized similarity to
// the input, or "" when every candidate normalizes to nothing.
func BestMatch(input string, candidates []string) string {
	normInput := normalizeValue(input)

	best := ""
	bestScore := -1.0
	for _, candidate := range candidates {
		norm := normalizeValue(candidate)
		if norm == "" {
			continue
		}
		score := levenshtein.Similarity(normInput, norm, nil)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	return best
}
