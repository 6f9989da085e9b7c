package models

// AppSetting is a single key/value row in the app-wide settings bag.
// Known keys: announcement, app_version.
type AppSetting struct {
	Key   string `gorm:"type:text;primaryKey"`
	Value string `gorm:"type:text;not null;default:''"`
}
