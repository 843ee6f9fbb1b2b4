package dialect

import (
	"strconv"

	"github.com/gaborage/go-sqlmodel/database/types"
)

var oracle = &vendorDialect{
	vendor: types.Oracle,
	placeholder: func(position int) string {
		return ":" + strconv.Itoa(position)
	},
	features: Features{Paging: OffsetFetch, DualTable: "dual"},
	codec:    codec{signedTiny: true, boolAsInt: true},
}

// Oracle returns the Oracle dialect: `:N` placeholders, OFFSET/FETCH paging and
// booleans bound as NUMBER(1) values 1 and 0.
func Oracle() Dialect { return oracle }
