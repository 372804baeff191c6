package dbConverter

import (
	"sort"
	"time"

	"github.com/KotFed0t/ginvest_bot/internal/model/dbModel"
)

// ToRecords builds rows in key order so concurrent writers lock rows in the same order.
func ToRecords(namespace string, values map[string]string, updatedAt time.Time) []dbModel.Record {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]dbModel.Record, 0, len(keys))
	for _, k := range keys {
		records = append(records, dbModel.Record{
			Namespace: namespace,
			Key:       k,
			Value:     values[k],
			UpdatedAt: updatedAt,
		})
	}
	return records
}
