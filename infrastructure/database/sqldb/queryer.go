package sqldb

import "github.com/jmoiron/sqlx"

// Queryer é satisfeito tanto pela conexão quanto por uma transação
type Queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}
