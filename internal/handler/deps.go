package handler

import (
	"relaychat/internal/app/chat"
	"relaychat/internal/app/storage"
	"relaychat/internal/configs"
)

// AppDeps bundles what the HTTP layer needs. StorageService is nil when no bucket is configured.
type AppDeps struct {
	Coordinator    *chat.Coordinator
	Hub            *chat.Hub
	Config         *configs.AppConfig
	StorageService storage.StorageService
}
