package constants

type AlertType string

const (
	AlertTypeFailover  AlertType = "failover"
	AlertTypeErrorRate AlertType = "error_rate"
	AlertTypeRecovery  AlertType = "recovery"
)

type PoolState string

const (
	PoolStatePrimary PoolState = "primary"
	PoolStateBackup  PoolState = "backup"
)
