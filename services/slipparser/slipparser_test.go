package slipparser_test

import (
	"testing"

	"parcel-delivery/services/slipparser"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONFromMarkdown(t *testing.T) {
	plain := `{"senderName": "Rashed Khan"}`
	assert.Equal(t, plain, slipparser.ExtractJSONFromMarkdown(plain))

	fenced := "```json\n{\"senderName\": \"Rashed Khan\"}\n```"
	assert.Equal(t, plain, slipparser.ExtractJSONFromMarkdown(fenced))

	bare := "```\n{\"senderName\": \"Rashed Khan\"}\n```"
	assert.Equal(t, plain, slipparser.ExtractJSONFromMarkdown(bare))

	padded := "  \n```json\n{\"senderName\": \"Rashed Khan\"}\n```\n  "
	assert.Equal(t, plain, slipparser.ExtractJSONFromMarkdown(padded))
}
