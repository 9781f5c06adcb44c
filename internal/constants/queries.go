package constants

const (
	InsertAuditLog = `
	INSERT INTO audit_logs (timestamp, actor_id, account_id, action_type, resource_type, resource_id, metadata, ip_address)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	CountLoginFailuresByIP = `
	SELECT count(*) FROM audit_logs
	WHERE action_type = $1 AND ip_address = $2 AND timestamp > $3
	`

	CountLoginFailuresByAccount = `
	SELECT count(*) FROM audit_logs
	WHERE action_type = $1 AND account_id = $2 AND timestamp > $3
	`
)
