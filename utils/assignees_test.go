package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAssigneeIDsAcceptedShapes(t *testing.T) {
	want := []uint{1, 2, 3}

	// The same id list in all four shapes a client may send.
	assert.Equal(t, want, ParseAssigneeIDs([]interface{}{float64(1), float64(2), float64(3)}))
	assert.Equal(t, want, ParseAssigneeIDs([]interface{}{"1", "2", "3"}))
	assert.Equal(t, want, ParseAssigneeIDs(`[1,2,3]`))
	assert.Equal(t, want, ParseAssigneeIDs(`["1","2","3"]`))
	assert.Equal(t, want, ParseAssigneeIDs("1,2,3"))
	assert.Equal(t, want, ParseAssigneeIDs("1, 2, 3"))
	assert.Equal(t, []uint{7}, ParseAssigneeIDs(float64(7)))
	assert.Equal(t, []uint{7}, ParseAssigneeIDs("7"))
}

func TestParseAssigneeIDsOrderPreserved(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, ParseAssigneeIDs("3,1,2"))
}

func TestParseAssigneeIDsNoDedup(t *testing.T) {
	assert.Equal(t, []uint{1, 1, 2}, ParseAssigneeIDs("1,1,2"))
}

func TestParseAssigneeIDsDropsEmptyEntries(t *testing.T) {
	assert.Equal(t, []uint{1, 3}, ParseAssigneeIDs([]interface{}{"1", "", "3"}))
	assert.Equal(t, []uint{1, 3}, ParseAssigneeIDs("1,,3"))
	assert.Equal(t, []uint{2}, ParseAssigneeIDs([]interface{}{nil, float64(2)}))
}

func TestParseAssigneeIDsEmptyInputs(t *testing.T) {
	assert.Empty(t, ParseAssigneeIDs(nil))
	assert.Empty(t, ParseAssigneeIDs(""))
	assert.Empty(t, ParseAssigneeIDs("   "))
	assert.Empty(t, ParseAssigneeIDs([]interface{}{}))
	assert.Empty(t, ParseAssigneeIDs("not-a-number"))
}
