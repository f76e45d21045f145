package dotenv

import (
	"database/sql"
	"sync"

	"github.com/lib/pq"
)

var registerDashboardDriverOnce sync.Once

func init() {
	registerDashboardDriverOnce.Do(func() {
		sql.Register("latency-dashboard", &pq.Driver{})
	})
}
