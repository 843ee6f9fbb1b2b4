package dialect

import (
	"strconv"

	"github.com/gaborage/go-sqlmodel/database/types"
)

var sqlserver = &vendorDialect{
	vendor: types.SQLServer,
	placeholder: func(position int) string {
		return "@P" + strconv.Itoa(position)
	},
	features: Features{Paging: RowNumber, NamedDerivedColumns: true},
	// tinyint is unsigned on SQL Server
	codec: codec{unsignedTiny: true},
}

// SQLServer returns the SQL Server (TDS) dialect: `@PN` placeholders and
// ROW_NUMBER() paging.
func SQLServer() Dialect { return sqlserver }
