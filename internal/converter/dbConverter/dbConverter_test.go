package dbConverter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToRecords(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	values := map[string]string{"b": "2", "a": "1"}

	records := ToRecords("42", values, now)
	if assert.Len(t, records, 2) {
		assert.Equal(t, "a", records[0].Key)
		assert.Equal(t, "42", records[1].Namespace)
		assert.Equal(t, now, records[1].UpdatedAt)
		assert.Equal(t, "2", records[1].Value)
	}
}
