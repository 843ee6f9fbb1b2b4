package dialect

import "github.com/gaborage/go-sqlmodel/database/types"

var mysql = &vendorDialect{
	vendor:      types.MySQL,
	placeholder: question,
	features:    Features{Paging: LimitOffset, DualTable: "dual"},
	codec:       codec{signedTiny: true, unsigned: true},
}

// MySQL returns the MySQL dialect: `?` placeholders, LIMIT/OFFSET paging and
// the full unsigned integer range.
func MySQL() Dialect { return mysql }

func question(int) string { return "?" }
