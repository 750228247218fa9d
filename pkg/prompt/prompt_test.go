package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataAnalystSubstitutions(t *testing.T) {
	text := DataAnalyst(Profile{
		BotName:     "ANALYZA",
		UserName:    "Alice",
		UserRole:    "a growth analyst",
		UserContext: "a retail lender",
	})

	assert.Contains(t, text, "You are **ANALYZA**")
	assert.Contains(t, text, "collaborating with **Alice**")
	assert.Contains(t, text, "who is a growth analyst at a retail lender")
	assert.Contains(t, text, "LIMIT 15")
	assert.Contains(t, text, "resolve_name")
}

func TestProfileDefaults(t *testing.T) {
	text := DataAnalyst(Profile{BotName: "ANALYZA"})
	assert.Contains(t, text, "**a colleague**")
	assert.Contains(t, text, "who is an analyst at the company")
}

func TestForType(t *testing.T) {
	p := Profile{BotName: "ANALYZA", UserName: "Alice"}

	defaultPrompt, err := ForType("", p)
	require.NoError(t, err)
	assert.Equal(t, DataAnalyst(p), defaultPrompt)

	viz, err := ForType("visualization", p)
	require.NoError(t, err)
	assert.Contains(t, viz, "data visualization specialist")

	sql, err := ForType("sql_expert", p)
	require.NoError(t, err)
	assert.Contains(t, sql, "SQL expert")

	_, err = ForType("poet", p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt type")
}
