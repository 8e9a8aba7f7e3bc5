package booking

import (
	"github.com/m04kA/GardenBookingService/pkg/txmanager"
)

// DBExecutor *sql.DB or the transaction carried in the context
type DBExecutor = txmanager.DBExecutor
