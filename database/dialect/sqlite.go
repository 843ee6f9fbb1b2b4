package dialect

import "github.com/gaborage/go-sqlmodel/database/types"

var sqlite = &vendorDialect{
	vendor:      types.SQLite,
	placeholder: question,
	features:    Features{Paging: LimitOffset},
	codec:       codec{signedTiny: true},
}

// SQLite returns the SQLite dialect: `?` placeholders and LIMIT/OFFSET paging.
func SQLite() Dialect { return sqlite }
