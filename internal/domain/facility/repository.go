package facility

import "context"

type SettingsRepository interface {
	// GetCurrent returns the first configured facility
	GetCurrent(ctx context.Context) (Settings, error)
	GetByID(ctx context.Context, id string) (Settings, error)
	Update(ctx context.Context, id string, req UpdateSettingsRequest) (Settings, error)
}
