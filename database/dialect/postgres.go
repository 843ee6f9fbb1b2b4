package dialect

import (
	"strconv"

	"github.com/gaborage/go-sqlmodel/database/types"
)

var postgres = &vendorDialect{
	vendor: types.PostgreSQL,
	placeholder: func(position int) string {
		return "$" + strconv.Itoa(position)
	},
	features: Features{Paging: LimitOffset},
	codec:    codec{signedTiny: true},
}

// Postgres returns the PostgreSQL dialect: `$N` placeholders and LIMIT/OFFSET paging.
// Unsigned integers are rejected since PostgreSQL has no unsigned column types.
func Postgres() Dialect { return postgres }
