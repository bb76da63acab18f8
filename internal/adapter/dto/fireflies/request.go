package fireflies

// Sync actions accepted by POST /v1/fireflies/sync
const (
	ActionSync = "sync"
	ActionTest = "test"
)

// SyncRequest selects between a full sync and a credential check
type SyncRequest struct {
	Action string `json:"action" validate:"required,oneof=sync test"`
}
