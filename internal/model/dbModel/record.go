package dbModel

import "time"

type Record struct {
	Namespace string    `db:"namespace"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}
