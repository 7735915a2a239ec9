package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotePatch_Empty(t *testing.T) {
	title, body := "Groceries", ""

	assert.True(t, NotePatch{}.Empty())
	assert.False(t, NotePatch{Title: &title}.Empty())
	assert.False(t, NotePatch{Body: &body}.Empty())
}
